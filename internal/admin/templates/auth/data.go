package auth

// LoginPageData encapsulates rendering state for the admin login screen.
type LoginPageData struct {
	Email         string
	EmailError    string
	PasswordError string
	Error         string
	Notice        string
	LoginPath     string
	CSRFToken     string
}
