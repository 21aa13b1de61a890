package otherUtils

// IIf is a ternary operator-like implementation
func IIf[T any](condition bool, trueValue T, falseValue T) T {
	if condition {
		return trueValue
	}
	return falseValue
}
