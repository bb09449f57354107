package directory

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/hrplatform/employee-directory/internal"
)

var searchAttributes = []string{"cn", "mail", "telephoneNumber", "distinguishedName", "department", "title"}

// Client bridges to the external Active Directory service. It is stateless:
// every operation dials, binds and closes its own connection, so a single
// instance is safe to share across requests. Directory operations are
// infrequent admin/auth actions, not a hot path; simplicity wins over
// connection pooling here.
type Client struct {
	cfg    internal.DirectoryConfig
	dial   DialFunc
	logger *slog.Logger
}

func NewClient(cfg internal.DirectoryConfig, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		dial:   dialWithTimeout(cfg.OperationTimeout),
		logger: logger,
	}
}

// NewClientWithDialer injects a custom dialer, used by tests.
func NewClientWithDialer(cfg internal.DirectoryConfig, dial DialFunc, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		dial:   dial,
		logger: logger,
	}
}

func dialWithTimeout(timeout time.Duration) DialFunc {
	return func(addr string) (Conn, error) {
		conn, err := ldap.DialURL(addr, ldap.DialWithDialer(&net.Dialer{Timeout: timeout}))
		if err != nil {
			return nil, err
		}
		conn.SetTimeout(timeout)
		return conn, nil
	}
}

// principalName builds the UPN form used for binds, e.g. "jdoe@example.local".
func (c *Client) principalName(username string) string {
	return fmt.Sprintf("%s@%s", username, strings.ToLower(c.cfg.Domain))
}

// connect dials and binds as the given user. Any dial or bind failure is
// collapsed to a nil connection; the caller only learns that the bind did
// not succeed, which is the deliberate fail-closed policy of this layer.
func (c *Client) connect(username, password string) Conn {
	if username == "" || password == "" {
		return nil
	}

	conn, err := c.dial(c.cfg.ServerURL)
	if err != nil {
		c.logger.Error("directory dial failed", "server", c.cfg.ServerURL, "error", err)
		return nil
	}

	if err := conn.Bind(c.principalName(username), password); err != nil {
		c.logger.Debug("directory bind failed", "username", username, "error", err)
		conn.Close()
		return nil
	}

	return conn
}

// Authenticate attempts a bind with the supplied credentials. It never
// returns an error: connectivity failures and wrong credentials are both
// reported as false.
func (c *Client) Authenticate(username, password string) bool {
	conn := c.connect(username, password)
	if conn == nil {
		return false
	}
	conn.Close()
	return true
}

// FetchAttributes binds with the supplied credentials (or the configured
// service account) and returns the first entry matching the username, or
// absent when the bind or search fails or nothing matches.
func (c *Client) FetchAttributes(username string, creds *Credentials) (*Attributes, bool) {
	bindUser := c.cfg.ServiceUsername
	bindPass := c.cfg.ServicePassword
	if creds != nil {
		bindUser = creds.Username
		bindPass = creds.Password
	}

	conn := c.connect(bindUser, bindPass)
	if conn == nil {
		return nil, false
	}
	defer conn.Close()

	req := ldap.NewSearchRequest(
		c.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		fmt.Sprintf("(sAMAccountName=%s)", ldap.EscapeFilter(username)),
		searchAttributes,
		nil,
	)

	res, err := conn.Search(req)
	if err != nil {
		c.logger.Error("directory search failed", "username", username, "error", err)
		return nil, false
	}

	if len(res.Entries) == 0 {
		return nil, false
	}

	entry := res.Entries[0]
	dn := entry.GetAttributeValue("distinguishedName")
	if dn == "" {
		dn = entry.DN
	}

	return &Attributes{
		CommonName:        entry.GetAttributeValue("cn"),
		Email:             entry.GetAttributeValue("mail"),
		Phone:             entry.GetAttributeValue("telephoneNumber"),
		OU:                OUFromDN(dn),
		DistinguishedName: dn,
		Department:        entry.GetAttributeValue("department"),
		Title:             entry.GetAttributeValue("title"),
	}, true
}

// MoveEntry relocates the entry for username under a new organizational
// unit, binding as the acting admin. It fails closed: every lookup or
// directory-write failure yields (false, message) and never an error.
func (c *Client) MoveEntry(username, newOU, adminUsername, adminPassword string) (bool, string) {
	conn := c.connect(adminUsername, adminPassword)
	if conn == nil {
		return false, "failed to connect to directory"
	}
	defer conn.Close()

	current, ok := c.FetchAttributes(username, &Credentials{Username: adminUsername, Password: adminPassword})
	if !ok {
		return false, "user not found in directory"
	}

	newSuperior := fmt.Sprintf("OU=%s,%s,%s", newOU, c.cfg.MoveContainer, c.cfg.BaseDN)
	req := ldap.NewModifyDNRequest(
		current.DistinguishedName,
		fmt.Sprintf("CN=%s", ldap.EscapeDN(current.CommonName)),
		true,
		newSuperior,
	)

	if err := conn.ModifyDN(req); err != nil {
		c.logger.Error("directory move failed",
			"username", username,
			"new_superior", newSuperior,
			"error", err)
		return false, "failed to move user"
	}

	c.logger.Info("directory entry moved", "username", username, "to_ou", newOU)
	return true, "user moved successfully"
}

// OUFromDN extracts the first OU component of a distinguished name, or the
// UnknownOU sentinel when the DN has none.
func OUFromDN(dn string) string {
	for _, part := range strings.Split(dn, ",") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "OU=") {
			return strings.TrimPrefix(part, "OU=")
		}
	}
	return UnknownOU
}
