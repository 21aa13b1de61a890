package database

import (
	"fmt"

	"gorm.io/gorm"
)

var (
	pingPluginSingleton *pingPlugin
)

// pingPlugin checks the pool before each statement so an unreachable server
// shows up as ErrConnection instead of a driver-specific query error.
type pingPlugin struct{}

func init() {
	pingPluginSingleton = &pingPlugin{}
}

func (p *pingPlugin) Name() string {
	return "gradebook:ping"
}

func (p *pingPlugin) Initialize(db *gorm.DB) error {
	transactionEnabled := func(db *gorm.DB) bool {
		return !db.SkipDefaultTransaction
	}
	transactionDisabled := func(db *gorm.DB) bool {
		return db.SkipDefaultTransaction
	}

	temp := db.Callback().Create()
	if err := temp.Match(transactionEnabled).Before("gorm:begin_transaction").Register("gradebook:ping", pingCallback); err != nil {
		return err
	}
	if err := temp.Match(transactionDisabled).Before("gorm:before_create").Register("gradebook:ping", pingCallback); err != nil {
		return err
	}

	if err := db.Callback().Query().Before("gorm:query").Register("gradebook:ping", pingCallback); err != nil {
		return err
	}

	temp = db.Callback().Delete()
	if err := temp.Match(transactionEnabled).Before("gorm:begin_transaction").Register("gradebook:ping", pingCallback); err != nil {
		return err
	}
	if err := temp.Match(transactionDisabled).Before("gorm:before_delete").Register("gradebook:ping", pingCallback); err != nil {
		return err
	}

	if err := db.Callback().Row().Before("gorm:row").Register("gradebook:ping", pingCallback); err != nil {
		return err
	}

	return db.Callback().Raw().Before("gorm:raw").Register("gradebook:ping", pingCallback)
}

func pingCallback(db *gorm.DB) {
	if db.DryRun || db.Error != nil {
		return
	}

	if err := internalPingCallback(db); err != nil {
		db.AddError(fmt.Errorf("%w: %w", ErrConnection, err))
	}
}

func internalPingCallback(db *gorm.DB) error {
	// an open transaction already holds a live connection
	if _, inTx := db.Statement.ConnPool.(gorm.TxCommitter); inTx {
		return nil
	}

	internalDb, err := db.DB()
	if err != nil {
		return err
	}

	if db.Statement.Context != nil {
		return internalDb.PingContext(db.Statement.Context)
	}
	return internalDb.Ping()
}
