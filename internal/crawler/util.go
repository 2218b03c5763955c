package crawler

import "strings"

// extractUserAndRepo splits "owner/name".
func extractUserAndRepo(fullName string) (string, string) {
	parts := strings.Split(fullName, "/")
	if len(parts) >= 2 {
		return parts[0], parts[1]
	}
	return "", ""
}
