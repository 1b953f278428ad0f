package xerrors

// Unwrap flattens errors.Join style errors into their leaves.
// A nil error yields nil, a plain error yields itself.
func Unwrap(err error) []error {
	if err == nil {
		return nil
	}
	u, ok := err.(interface {
		Unwrap() []error
	})
	if !ok {
		return []error{err}
	}
	var errs []error
	for _, e := range u.Unwrap() {
		errs = append(errs, Unwrap(e)...)
	}
	return errs
}
