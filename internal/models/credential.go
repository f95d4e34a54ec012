package models

// Credential is the persisted form of one user record: the username and the
// uppercase hex encoding of the password digest.
type Credential struct {
	Username string `json:"username"`
	Digest   string `json:"digest"`
}
