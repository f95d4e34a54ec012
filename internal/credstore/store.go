package credstore

import (
	"crypto/md5"
	"crypto/subtle"
	"fmt"
	"hash"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Common errors
var ErrDuplicateUser = fmt.Errorf("user already exists")
var ErrUserNotFound = fmt.Errorf("user not found")
var ErrMalformedHash = fmt.Errorf("malformed password hash")
var ErrAuthentication = fmt.Errorf("user or password incorrect")

// Store maps usernames to one-way password digests and verifies login
// attempts by recomputing and comparing digests. All operations are safe for
// concurrent use; every mutation either fully succeeds or leaves the store
// unchanged.
type Store struct {
	mu      sync.RWMutex
	newHash func() hash.Hash
	size    int
	users   map[string][]byte
}

type Option func(*Store)

// WithHash replaces the default MD5 digest function. Digests persisted under
// a different algorithm will no longer verify; switching is a storage format
// break.
func WithHash(newHash func() hash.Hash) Option {
	return func(s *Store) {
		s.newHash = newHash
	}
}

// New creates an empty credential store. The default digest algorithm is MD5
// for compatibility with existing persisted digests.
func New(opts ...Option) *Store {
	s := &Store{
		newHash: md5.New,
		users:   make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.size = s.newHash().Size()
	return s
}

// HashSize returns the digest length in bytes.
func (s *Store) HashSize() int {
	return s.size
}

// AddUser computes the password digest and registers the user.
// It returns ErrDuplicateUser if the username is already present.
func (s *Store) AddUser(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(username, s.sum(password))
}

// AddUserHash registers a user with a precomputed digest. The digest must
// have the store's fixed hash length; anything else is ErrMalformedHash.
func (s *Store) AddUserHash(username string, digest []byte) error {
	if len(digest) != s.size {
		return fmt.Errorf("%w: digest must be %d bytes, got %d", ErrMalformedHash, s.size, len(digest))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(username, append([]byte(nil), digest...))
}

// AddUserHashHex registers a user with a hex-encoded precomputed digest, as
// produced by PasswordHash or EncodeHash.
func (s *Store) AddUserHashHex(username, digestHex string) error {
	digest, err := DecodeHash(digestHex)
	if err != nil {
		return err
	}
	return s.AddUserHash(username, digest)
}

// RemoveUser deletes the user's record. Removing an unknown user is a no-op.
func (s *Store) RemoveUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, username)
}

// Exists reports whether a record is present for the exact username.
func (s *Store) Exists(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[username]
	return ok
}

// Authenticate reports whether the password verifies against the stored
// digest. It returns false, never an error, for an empty username or
// password, an unknown user, or a digest mismatch.
func (s *Store) Authenticate(username, password string) bool {
	if username == "" || password == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.verify(username, password)
}

// ChangePassword verifies the current password and replaces the stored
// digest with the digest of the new password, as one atomic step. It returns
// ErrAuthentication when the current password does not verify and leaves the
// store unmodified.
func (s *Store) ChangePassword(username, currentPassword, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if username == "" || currentPassword == "" || !s.verify(username, currentPassword) {
		return ErrAuthentication
	}
	s.users[username] = s.sum(newPassword)
	return nil
}

// PasswordHash returns the stored digest as uppercase hex.
// It returns ErrUserNotFound if the user is not registered.
func (s *Store) PasswordHash(username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	digest, ok := s.users[username]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return EncodeHash(digest), nil
}

// Users returns a sorted snapshot of the registered usernames. Later
// mutations do not affect a previously returned slice.
func (s *Store) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.users))
	for username := range s.users {
		users = append(users, username)
	}
	sort.Strings(users)
	return users
}

// Len returns the number of registered users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// add expects s.mu to be held for writing.
func (s *Store) add(username string, digest []byte) error {
	if _, exists := s.users[username]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateUser, username)
	}
	s.users[username] = digest
	return nil
}

// verify expects s.mu to be held at least for reading.
func (s *Store) verify(username, password string) bool {
	digest, ok := s.users[username]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare(digest, s.sum(password)) == 1
}

// sum digests the UTF-8 bytes of the password. Invalid sequences are
// replaced with U+FFFD rather than rejected, so digests line up with
// encoders that substitute on encode.
func (s *Store) sum(password string) []byte {
	h := s.newHash()
	h.Write([]byte(strings.ToValidUTF8(password, string(utf8.RuneError))))
	return h.Sum(nil)
}
