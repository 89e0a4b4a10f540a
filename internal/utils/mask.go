package utils

const maskKeepPrefix = 4

// MaskSecret keeps a short identifying prefix of a credential for log lines
// and hides the rest.
func MaskSecret(s string) string {
	if len(s) <= maskKeepPrefix {
		return "*****"
	}
	return s[:maskKeepPrefix] + "*****"
}
