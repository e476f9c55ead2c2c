package ldap

import (
	"context"
	"fmt"

	"github.com/go-ldap/ldap/v3"

	"managerof/internal/domain"
)

// userAccountControl for a disabled normal account (NORMAL_ACCOUNT|ACCOUNTDISABLE).
// Seeded people never need to log on.
const disabledAccount = "514"

// EnsureContainer creates the organizational unit at dn unless it exists
func (d *Directory) EnsureContainer(ctx context.Context, dn string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := ldap.NewAddRequest(dn, nil)
	req.Attribute("objectClass", []string{"top", "organizationalUnit"})

	if err := d.conn.Add(req); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists) {
			return nil
		}
		return fmt.Errorf("add %s: %w", dn, err)
	}
	return nil
}

// AddPerson creates a disabled user entry for p under containerDN
func (d *Directory) AddPerson(ctx context.Context, containerDN string, p domain.Person) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dn := "CN=" + ldap.EscapeDN(p.CommonName) + "," + containerDN

	req := ldap.NewAddRequest(dn, nil)
	req.Attribute("objectClass", []string{"top", "person", "organizationalPerson", "user"})
	req.Attribute("cn", []string{p.CommonName})
	req.Attribute("displayName", []string{p.CommonName})
	req.Attribute("sAMAccountName", []string{p.AccountName})
	req.Attribute("title", []string{p.Title})
	req.Attribute("userAccountControl", []string{disabledAccount})

	if err := d.conn.Add(req); err != nil {
		return "", fmt.Errorf("add %s: %w", dn, err)
	}
	return dn, nil
}

// SetManager replaces the manager attribute of the entry at dn
func (d *Directory) SetManager(ctx context.Context, dn, managerDN string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := ldap.NewModifyRequest(dn, nil)
	req.Replace(attrManager, []string{managerDN})

	if err := d.conn.Modify(req); err != nil {
		return fmt.Errorf("set manager of %s: %w", dn, err)
	}
	return nil
}
