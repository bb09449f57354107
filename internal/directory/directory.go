package directory

import (
	"time"

	"github.com/go-ldap/ldap/v3"
)

// UnknownOU is reported when an entry's distinguished name carries no OU
// component. Callers always get an OU string, never an absent value.
const UnknownOU = "Unknown"

// Attributes is a live snapshot of one directory entry. It is fetched per
// request and never persisted; an absent snapshot means the directory was
// unreachable or the entry does not exist, which is not the same as a
// snapshot with empty fields.
type Attributes struct {
	CommonName        string `json:"cn,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	OU                string `json:"ou,omitempty"`
	DistinguishedName string `json:"distinguished_name,omitempty"`
	Department        string `json:"department,omitempty"`
	Title             string `json:"title,omitempty"`
}

// Credentials identify the account used to bind for a read operation. A nil
// Credentials falls back to the configured service account.
type Credentials struct {
	Username string
	Password string
}

// Conn is the subset of *ldap.Conn the client uses; tests substitute fakes.
type Conn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	ModifyDN(req *ldap.ModifyDNRequest) error
	SetTimeout(timeout time.Duration)
	Close() error
}

// DialFunc opens a directory connection. The production implementation dials
// the configured LDAP URL with a bounded dial and operation timeout.
type DialFunc func(addr string) (Conn, error)

// ClientAPI is the directory surface consumed by the workflows.
type ClientAPI interface {
	Authenticate(username, password string) bool
	FetchAttributes(username string, creds *Credentials) (*Attributes, bool)
	MoveEntry(username, newOU, adminUsername, adminPassword string) (bool, string)
}
