package ldap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"

	"managerof/internal/domain"
	"managerof/internal/ports"
)

const (
	attrObjectSID         = "objectSid"
	attrManager           = "manager"
	attrDistinguishedName = "distinguishedName"
	attrNamingContext     = "defaultNamingContext"

	// personWithManagerFilter matches user objects that carry a manager.
	personWithManagerFilter = "(&(objectCategory=person)(objectClass=user)(manager=*))"

	DefaultPageSize = 1000
	DefaultTimeout  = 30 * time.Second
)

// ErrNoSuchEntry is returned when a distinguished name does not resolve to an entry
var ErrNoSuchEntry = errors.New("no such entry")

// conn is the subset of *ldap.Conn the adapter uses
type conn interface {
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Add(req *ldap.AddRequest) error
	Modify(req *ldap.ModifyRequest) error
	Unbind() error
}

// Options configures a directory session
type Options struct {
	Server             string // ldap://host[:port], ldaps://host[:port] or a bare host
	SearchBase         string // empty means the server's defaultNamingContext
	BindDN             string // empty means an anonymous session
	BindPassword       string
	StartTLS           bool
	InsecureSkipVerify bool
	PageSize           uint32
	Timeout            time.Duration
}

// Directory implements ports.Directory and ports.DirectoryWriter over LDAP
type Directory struct {
	conn     conn
	base     string
	pageSize uint32
	timeout  time.Duration
}

// Ensure Directory implements the directory ports
var (
	_ ports.Directory       = (*Directory)(nil)
	_ ports.DirectoryWriter = (*Directory)(nil)
)

// Dial connects and binds to the server described by opts. The returned
// Directory owns the connection; callers must Close it.
func Dial(ctx context.Context, opts Options) (*Directory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	serverURL, err := ServerURL(opts.Server)
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	tlsConfig := &tls.Config{
		ServerName:         serverURL.Hostname(),
		InsecureSkipVerify: opts.InsecureSkipVerify,
	}

	c, err := ldap.DialURL(serverURL.String(),
		ldap.DialWithDialer(&net.Dialer{Timeout: opts.Timeout}),
		ldap.DialWithTLSConfig(tlsConfig),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", serverURL.Host, err)
	}
	c.SetTimeout(opts.Timeout)

	if opts.StartTLS && serverURL.Scheme == "ldap" {
		if err := c.StartTLS(tlsConfig); err != nil {
			_ = c.Unbind()
			return nil, fmt.Errorf("starttls with %s: %w", serverURL.Host, err)
		}
	}

	if opts.BindDN != "" {
		if err := c.Bind(opts.BindDN, opts.BindPassword); err != nil {
			_ = c.Unbind()
			return nil, fmt.Errorf("bind as %s: %w", opts.BindDN, err)
		}
	}

	d := newDirectory(c, opts.SearchBase, opts.PageSize, opts.Timeout)
	if d.base == "" {
		base, err := d.DefaultNamingContext(ctx)
		if err != nil {
			_ = c.Unbind()
			return nil, err
		}
		d.base = base
	}

	return d, nil
}

func newDirectory(c conn, base string, pageSize uint32, timeout time.Duration) *Directory {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	return &Directory{
		conn:     c,
		base:     base,
		pageSize: pageSize,
		timeout:  timeout,
	}
}

// ServerURL normalizes a server setting into an ldap:// or ldaps:// URL
func ServerURL(server string) (*url.URL, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return nil, errors.New("no directory server configured")
	}
	if !strings.Contains(server, "://") {
		server = "ldap://" + server
	}

	u, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server %q: %w", server, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "ldap" && u.Scheme != "ldaps" {
		return nil, fmt.Errorf("invalid server %q: unsupported scheme %s", server, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("invalid server %q: missing host", server)
	}
	return u, nil
}

// SearchBase returns the root of the record enumeration
func (d *Directory) SearchBase() string {
	return d.base
}

// DefaultNamingContext reads the domain's naming context from the RootDSE
func (d *Directory) DefaultNamingContext(ctx context.Context) (string, error) {
	req := ldap.NewSearchRequest("", ldap.ScopeBaseObject, ldap.NeverDerefAliases,
		1, d.timeLimit(), false, "(objectClass=*)", []string{attrNamingContext}, nil)

	res, err := d.conn.Search(req)
	if err != nil {
		return "", fmt.Errorf("read rootDSE: %w", err)
	}
	if len(res.Entries) == 0 {
		return "", errors.New("read rootDSE: no entry returned")
	}

	base := res.Entries[0].GetAttributeValue(attrNamingContext)
	if base == "" {
		return "", errors.New("read rootDSE: server did not report a defaultNamingContext")
	}
	return base, nil
}

// Records starts a paged subtree search for users with a manager
func (d *Directory) Records(ctx context.Context) (ports.RecordIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paging := ldap.NewControlPaging(d.pageSize)
	req := ldap.NewSearchRequest(d.base, ldap.ScopeWholeSubtree, ldap.NeverDerefAliases,
		0, d.timeLimit(), false, personWithManagerFilter,
		[]string{attrObjectSID, attrManager, attrDistinguishedName},
		[]ldap.Control{paging})

	return &pagedIterator{
		ctx:    ctx,
		conn:   d.conn,
		req:    req,
		paging: paging,
	}, nil
}

// LookupSID reads the objectSid of the entry at dn
func (d *Directory) LookupSID(ctx context.Context, dn string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := ldap.NewSearchRequest(dn, ldap.ScopeBaseObject, ldap.NeverDerefAliases,
		1, d.timeLimit(), false, "(objectClass=*)", []string{attrObjectSID}, nil)

	res, err := d.conn.Search(req)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchEntry, dn)
		}
		return nil, fmt.Errorf("lookup %s: %w", dn, err)
	}
	if len(res.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchEntry, dn)
	}

	return res.Entries[0].GetRawAttributeValue(attrObjectSID), nil
}

// Close unbinds and closes the connection
func (d *Directory) Close() error {
	return d.conn.Unbind()
}

func (d *Directory) timeLimit() int {
	return int(d.timeout / time.Second)
}

// entryToRecord maps a search entry onto the typed record used downstream
func entryToRecord(e *ldap.Entry) domain.Record {
	dn := e.GetAttributeValue(attrDistinguishedName)
	if dn == "" {
		dn = e.DN
	}
	return domain.Record{
		DN:      dn,
		SID:     e.GetRawAttributeValue(attrObjectSID),
		Manager: e.GetAttributeValue(attrManager),
	}
}
