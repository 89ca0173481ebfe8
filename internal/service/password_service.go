package service

// PasswordService hashes and verifies one-way secrets. The same primitive is
// used for passwords and for refresh tokens before storage.
type PasswordService interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) bool
}
