package util

import "fmt"

// RedactKey masks a secret for logging, leaving the first and last 4 characters: xxxx...yyyy
func RedactKey(k string) string {
	if len(k) <= 8 {
		return "********"
	}
	return fmt.Sprintf("%s...%s", k[:4], k[len(k)-4:])
}
