//go:build !debug

package main

import "github.com/gorilla/mux"

func maybeEnableProfiling(r *mux.Router) {}
