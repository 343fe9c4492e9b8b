// Package testutils provides helpers for generating random but valid usuario
// payloads in tests.
package testutils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/Vector/usuarios-api/models"
)

const (
	EMPTY       = ""
	letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberBytes = "0123456789"
)

var (
	src = rand.Reader

	// Common domains for email generation
	emailDomains = []string{
		"gmail.com", "yahoo.com.br", "hotmail.com", "outlook.com",
		"example.com", "uol.com.br",
	}

	firstNames = []string{
		"Ana", "Bruno", "Carla", "Diego", "Elisa", "Felipe", "Gabriela", "Heitor",
	}

	streets = []string{
		"Rua das Flores", "Av. Paulista", "Rua Augusta", "Av. Brasil", "Rua XV de Novembro",
	}
)

// GenerateRandomString generates a random string of length n built from
// letters and, optionally, digits.
func GenerateRandomString(n int, includeNumbers bool) string {
	if n <= 0 {
		return EMPTY
	}

	chars := letterBytes
	if includeNumbers {
		chars += numberBytes
	}

	result := make([]byte, n)
	for i := 0; i < n; i++ {
		result[i] = chars[GenerateRandomInt(0, len(chars)-1)]
	}

	return string(result)
}

// GenerateRandomInt generates a cryptographically secure random integer in [min, max]
func GenerateRandomInt(min, max int) int {
	if min >= max {
		return min
	}

	n, err := rand.Int(src, big.NewInt(int64(max-min+1)))
	if err != nil {
		panic(fmt.Sprintf("failed to generate random int: %v", err))
	}

	return int(n.Int64()) + min
}

// GenerateRandomEmail generates a realistic-looking email address
func GenerateRandomEmail(namelen int) string {
	username := GenerateRandomString(namelen, true)
	domain := emailDomains[GenerateRandomInt(0, len(emailDomains)-1)]

	return fmt.Sprintf("%s@%s", strings.ToLower(username), domain)
}

// GenerateRandomTelefone returns a phone in the (XX) XXXX-XXXX or
// (XX) XXXXX-XXXX format.
func GenerateRandomTelefone() string {
	ddd := GenerateRandomInt(11, 99)
	suffix := GenerateRandomInt(0, 9999)

	if GenerateRandomInt(0, 1) == 0 {
		return fmt.Sprintf("(%02d) %04d-%04d", ddd, GenerateRandomInt(2000, 5999), suffix)
	}

	return fmt.Sprintf("(%02d) 9%04d-%04d", ddd, GenerateRandomInt(0, 9999), suffix)
}

// GenerateRandomUsuarioInput creates an input that passes validation. Random
// suffixes make collisions between two generated inputs practically impossible.
func GenerateRandomUsuarioInput() models.UsuarioInput {
	first := firstNames[GenerateRandomInt(0, len(firstNames)-1)]
	street := streets[GenerateRandomInt(0, len(streets)-1)]

	return models.UsuarioInput{
		Nome:     fmt.Sprintf("%s %s", first, GenerateRandomString(6, false)),
		Endereco: fmt.Sprintf("%s, %d", street, GenerateRandomInt(1, 9999)),
		Email:    GenerateRandomEmail(10),
		Telefone: GenerateRandomTelefone(),
	}
}

// GenerateRandomUsuarioInputs creates count inputs
func GenerateRandomUsuarioInputs(count int) []models.UsuarioInput {
	return GenerateRandomWithOptions(count, GenerateRandomUsuarioInput)
}

// GenerateRandomWithOptions is a generic function that generates a slice of
// random instances using generator
func GenerateRandomWithOptions[T any](count int, generator func() T) []T {
	items := make([]T, count)
	for i := 0; i < count; i++ {
		items[i] = generator()
	}

	return items
}
