package directory

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"

	"github.com/rosterops/rosterctl/rosterctl/config"
)

// Account control bits, per the AD userAccountControl attribute.
const (
	uacNormalAccount  = 0x0200
	uacAccountDisable = 0x0002
)

// LDAPDirectory implements Directory against an LDAP server with
// AD-style account attributes.
type LDAPDirectory struct {
	conn   *ldap.Conn
	baseDN string
}

// Connect dials and binds to the directory server described by cfg.
// Addresses may be given as host:port or as ldap:// / ldaps:// URLs.
func Connect(cfg config.DirectoryConfig) (*LDAPDirectory, error) {
	url := cfg.Address
	if !strings.Contains(url, "://") {
		url = "ldap://" + url
	}

	var opts []ldap.DialOpt
	if cfg.InsecureSkipVerify {
		opts = append(opts, ldap.DialWithTLSConfig(&tls.Config{InsecureSkipVerify: true}))
	}

	conn, err := ldap.DialURL(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial directory %s: %w", cfg.Address, err)
	}

	if cfg.BindDN != "" {
		if err := conn.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
			conn.Close()
			return nil, fmt.Errorf("bind as %s: %w", cfg.BindDN, err)
		}
	}

	return &LDAPDirectory{conn: conn, baseDN: cfg.BaseDN}, nil
}

func (d *LDAPDirectory) Close() {
	d.conn.Close()
}

func (d *LDAPDirectory) FindByHandle(handle string) (*Entry, error) {
	req := ldap.NewSearchRequest(
		d.baseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 1, 0, false,
		fmt.Sprintf("(sAMAccountName=%s)", ldap.EscapeFilter(handle)),
		[]string{"dn", "sAMAccountName"},
		nil,
	)

	res, err := d.conn.Search(req)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded) && res != nil && len(res.Entries) > 0 {
			// More than one match still means the handle exists.
			return entryFromSearch(res.Entries[0]), nil
		}
		return nil, fmt.Errorf("search for %s: %w", handle, err)
	}
	if len(res.Entries) == 0 {
		return nil, nil
	}
	return entryFromSearch(res.Entries[0]), nil
}

func entryFromSearch(e *ldap.Entry) *Entry {
	return &Entry{
		DN:     e.DN,
		Handle: e.GetAttributeValue("sAMAccountName"),
	}
}

func (d *LDAPDirectory) CreateAccount(acct Account) error {
	dn := fmt.Sprintf("cn=%s,%s", ldap.EscapeDN(acct.FullName), acct.OU)

	control := uacNormalAccount
	if !acct.Enabled {
		control |= uacAccountDisable
	}

	req := ldap.NewAddRequest(dn, nil)
	req.Attribute("objectClass", []string{"top", "person", "organizationalPerson", "user"})
	req.Attribute("cn", []string{acct.FullName})
	req.Attribute("displayName", []string{acct.FullName})
	req.Attribute("givenName", []string{acct.GivenName})
	req.Attribute("sn", []string{acct.Surname})
	req.Attribute("sAMAccountName", []string{acct.Handle})
	req.Attribute("userPrincipalName", []string{acct.PrincipalName})
	req.Attribute("userAccountControl", []string{fmt.Sprintf("%d", control)})
	if acct.ForceCredentialReset {
		// Zero forces a credential change on first use.
		req.Attribute("pwdLastSet", []string{"0"})
	}

	if err := d.conn.Add(req); err != nil {
		return fmt.Errorf("create account %s: %w", acct.Handle, err)
	}
	return nil
}

func (d *LDAPDirectory) AddToGroup(group, handle string) error {
	entry, err := d.FindByHandle(handle)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("add %s to group %s: account not found", handle, group)
	}

	req := ldap.NewModifyRequest(group, nil)
	req.Add("member", []string{entry.DN})
	if err := d.conn.Modify(req); err != nil {
		return fmt.Errorf("add %s to group %s: %w", handle, group, err)
	}
	return nil
}
