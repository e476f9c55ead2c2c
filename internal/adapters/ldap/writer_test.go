package ldap

import (
	"context"
	"errors"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"managerof/internal/domain"
)

func attributeValues(req *ldap.AddRequest, name string) []string {
	for _, a := range req.Attributes {
		if a.Type == name {
			return a.Vals
		}
	}
	return nil
}

func TestEnsureContainer(t *testing.T) {
	conn := &fakeConn{}
	d := newDirectory(conn, testBase, 10, 0)

	require.NoError(t, d.EnsureContainer(context.Background(), "OU=Lab,"+testBase))
	require.Len(t, conn.added, 1)
	assert.Equal(t, "OU=Lab,"+testBase, conn.added[0].DN)
	assert.Equal(t, []string{"top", "organizationalUnit"}, attributeValues(conn.added[0], "objectClass"))
}

func TestEnsureContainer_AlreadyExists(t *testing.T) {
	conn := &fakeConn{addErr: &ldap.Error{ResultCode: ldap.LDAPResultEntryAlreadyExists, Err: errors.New("exists")}}

	assert.NoError(t, newDirectory(conn, testBase, 10, 0).EnsureContainer(context.Background(), "OU=Lab,"+testBase))
}

func TestAddPerson(t *testing.T) {
	conn := &fakeConn{}
	d := newDirectory(conn, testBase, 10, 0)

	dn, err := d.AddPerson(context.Background(), "OU=Lab,"+testBase, domain.Person{
		CommonName:  "Ada Abbot 000",
		AccountName: "lab.000",
		Title:       "Chief Executive Officer",
	})
	require.NoError(t, err)
	assert.Equal(t, "CN=Ada Abbot 000,OU=Lab,"+testBase, dn)

	req := conn.added[0]
	assert.Equal(t, []string{"lab.000"}, attributeValues(req, "sAMAccountName"))
	assert.Equal(t, []string{"Chief Executive Officer"}, attributeValues(req, "title"))
	assert.Equal(t, []string{disabledAccount}, attributeValues(req, "userAccountControl"))
}

func TestSetManager(t *testing.T) {
	conn := &fakeConn{}
	d := newDirectory(conn, testBase, 10, 0)

	require.NoError(t, d.SetManager(context.Background(), "CN=A,"+testBase, "CN=M,"+testBase))
	require.Len(t, conn.modified, 1)

	change := conn.modified[0].Changes[0]
	assert.Equal(t, attrManager, change.Modification.Type)
	assert.Equal(t, []string{"CN=M," + testBase}, change.Modification.Vals)
}

func TestAddPerson_EscapesCommonName(t *testing.T) {
	tests := map[string]string{
		"Ada Abbot":    "CN=Ada Abbot,OU=Lab," + testBase,
		"Hale, Mara":   `CN=Hale\, Mara,OU=Lab,` + testBase,
		"#hash":        `CN=\#hash,OU=Lab,` + testBase,
		"a+b;c":        `CN=a\+b\;c,OU=Lab,` + testBase,
		"Nul\x00Byte": `CN=Nul\00Byte,OU=Lab,` + testBase,
	}

	for cn, want := range tests {
		conn := &fakeConn{}
		d := newDirectory(conn, testBase, 10, 0)

		dn, err := d.AddPerson(context.Background(), "OU=Lab,"+testBase, domain.Person{CommonName: cn, AccountName: "lab.x"})
		require.NoError(t, err, cn)
		assert.Equal(t, want, dn, cn)
		assert.Equal(t, want, conn.added[0].DN, cn)
		assert.Equal(t, []string{cn}, attributeValues(conn.added[0], "cn"), cn)
	}
}
