// Package ptr holds small generic helpers for optional fields that are
// modeled as pointers, such as rejection reasons and due dates.
package ptr

// To returns a pointer to v. Useful for taking the address of literals
// and loop values.
func To[T any](v T) *T {
	return &v
}

// Deref returns the value p points to, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
