package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed and not user-tunable.
const bcryptCost = 10

// HashPassword derives a salted one-way hash from the plaintext. Equal
// plaintexts produce different hashes because the salt is random per call.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash, using the
// salt and cost embedded in the hash itself.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
