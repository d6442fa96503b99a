package utils

import (
	"os"
	"os/user"
	"strings"
)

// GetUsername returns the current username.
func GetUsername() (string, error) {
	user, err := user.Current()
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// GetHostname returns the system hostname.
func GetHostname() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", err
	}
	return hostname, nil
}

// DefaultOwner suggests an owner label of the form user@host.
// Whichever part cannot be determined is left out.
func DefaultOwner() string {
	username, _ := GetUsername()
	hostname, _ := GetHostname()

	// Windows usernames come back as DOMAIN\user.
	if i := strings.LastIndex(username, `\`); i >= 0 {
		username = username[i+1:]
	}

	switch {
	case username != "" && hostname != "":
		return username + "@" + hostname
	case username != "":
		return username
	default:
		return hostname
	}
}
