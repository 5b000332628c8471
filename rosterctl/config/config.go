package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/rosterops/rosterctl/rosterctl/roster"
)

// StoreConfig configures roster persistence.
type StoreConfig struct {
	Path            string
	Separator       rune
	HashCredentials bool
}

// DirectoryConfig configures the connection to the directory server.
type DirectoryConfig struct {
	Address            string // host:port, ldap:// or ldaps:// URL accepted
	BindDN             string
	BindPassword       string
	BaseDN             string
	DomainSuffix       string // appended to handles to form principal names
	InsecureSkipVerify bool
}

// MappingEntry is the directory placement for one position: the OU the
// account is created under and an optional group the account is added to.
type MappingEntry struct {
	OU    string
	Group string
}

// DirectoryMapping is the static position -> placement lookup used during
// provisioning. Every position the account service can produce must have
// an entry; a missing entry surfaces as a per-record export error.
type DirectoryMapping map[roster.Position]MappingEntry

// Config is the full tool configuration, loaded once at startup and
// passed explicitly to each component.
type Config struct {
	Store     StoreConfig
	Directory DirectoryConfig
	Mapping   DirectoryMapping
}

// Load reads configuration from an ini file.
//
//	[store]
//	path = roster.txt
//	separator = ";"
//	hash_credentials = false
//
//	[directory]
//	address = ldap.example.org:389
//	bind_dn = cn=admin,dc=example,dc=org
//	bind_password = secret
//	base_dn = dc=example,dc=org
//	domain_suffix = @example.org
//
//	[mapping.TTP]
//	ou = ou=TTP,dc=example,dc=org
//	group = cn=ttp,ou=groups,dc=example,dc=org
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg := &Config{
		Store: StoreConfig{
			Path:      "roster.txt",
			Separator: ';',
		},
		Mapping: DirectoryMapping{},
	}

	store := file.Section("store")
	if store.HasKey("path") {
		cfg.Store.Path = store.Key("path").String()
	}
	// The default separator is ';', which ini treats as a comment starter;
	// quote it ("separator = \";\"") to set it explicitly. An empty value
	// keeps the default.
	if sep := []rune(store.Key("separator").String()); len(sep) > 0 {
		if len(sep) != 1 {
			return nil, fmt.Errorf("config %s: separator must be a single character", path)
		}
		cfg.Store.Separator = sep[0]
	}
	cfg.Store.HashCredentials = store.Key("hash_credentials").MustBool(false)

	dir := file.Section("directory")
	cfg.Directory = DirectoryConfig{
		Address:            dir.Key("address").String(),
		BindDN:             dir.Key("bind_dn").String(),
		BindPassword:       dir.Key("bind_password").String(),
		BaseDN:             dir.Key("base_dn").String(),
		DomainSuffix:       dir.Key("domain_suffix").String(),
		InsecureSkipVerify: dir.Key("insecure_skip_verify").MustBool(false),
	}

	for _, section := range file.ChildSections("mapping") {
		name := section.Name()[len("mapping."):]
		position, err := roster.ParsePosition(name)
		if err != nil {
			return nil, fmt.Errorf("config %s: mapping section: %w", path, err)
		}
		cfg.Mapping[position] = MappingEntry{
			OU:    section.Key("ou").String(),
			Group: section.Key("group").String(),
		}
	}

	return cfg, nil
}
