package types

// Actor identifies who performed an action and from where.
type Actor struct {
	ID        string
	Name      string
	IP        string
	UserAgent string
}
