// Package ingest decodes the three upstream source formats into typed
// records, applies each source's validation policy, and routes every
// accepted key into the build's subtrees and nonce buckets.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// SSHKeyRecord is one [key_id, openssh_string] pair from github-ssh.json.
type SSHKeyRecord struct {
	KeyID   int
	OpenSSH string
}

func (k *SSHKeyRecord) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("ingest: decode ssh key record: %w", err)
	}
	if err := json.Unmarshal(tuple[0], &k.KeyID); err != nil {
		return fmt.Errorf("ingest: decode ssh key_id: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &k.OpenSSH); err != nil {
		return fmt.Errorf("ingest: decode ssh key body: %w", err)
	}
	return nil
}

// SSHUser is one [id, name, keys] entry from github-ssh.json.
type SSHUser struct {
	ID   int
	Name string
	Keys []SSHKeyRecord
}

func (u *SSHUser) UnmarshalJSON(data []byte) error {
	var tuple [3]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("ingest: decode ssh user record: %w", err)
	}
	if err := json.Unmarshal(tuple[0], &u.ID); err != nil {
		return fmt.Errorf("ingest: decode ssh user id: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &u.Name); err != nil {
		return fmt.Errorf("ingest: decode ssh user name: %w", err)
	}
	if err := json.Unmarshal(tuple[2], &u.Keys); err != nil {
		return fmt.Errorf("ingest: decode ssh user keys: %w", err)
	}
	return nil
}

// PGPEmail is one [email, verified] pair attached to a code-host PGP key.
type PGPEmail struct {
	Email    string
	Verified int
}

func (e *PGPEmail) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("ingest: decode pgp email record: %w", err)
	}
	if err := json.Unmarshal(tuple[0], &e.Email); err != nil {
		return fmt.Errorf("ingest: decode pgp email address: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &e.Verified); err != nil {
		return fmt.Errorf("ingest: decode pgp email verified flag: %w", err)
	}
	return nil
}

// PGPKeyRecord is one code-host PGP key tuple:
// [id, parent_id, key_id, base64_key, emails, uses, ctime, etime, depth].
type PGPKeyRecord struct {
	ID        int
	ParentID  int
	KeyIDHex  string
	Base64Key string
	Emails    []PGPEmail
	Uses      string
	CTime     int64
	ETime     int64
	Depth     int
}

func (k *PGPKeyRecord) UnmarshalJSON(data []byte) error {
	var tuple [9]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("ingest: decode pgp key record: %w", err)
	}
	fields := []struct {
		raw json.RawMessage
		dst any
	}{
		{tuple[0], &k.ID},
		{tuple[1], &k.ParentID},
		{tuple[2], &k.KeyIDHex},
		{tuple[3], &k.Base64Key},
		{tuple[4], &k.Emails},
		{tuple[5], &k.Uses},
		{tuple[6], &k.CTime},
		{tuple[7], &k.ETime},
		{tuple[8], &k.Depth},
	}
	for i, f := range fields {
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return fmt.Errorf("ingest: decode pgp key record field %d: %w", i, err)
		}
	}
	return nil
}

// PGPUser is one [id, name, keys] entry from github-pgp.json, parallel
// indexed with SSHUser.
type PGPUser struct {
	ID   int
	Name string
	Keys []PGPKeyRecord
}

func (u *PGPUser) UnmarshalJSON(data []byte) error {
	var tuple [3]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("ingest: decode pgp user record: %w", err)
	}
	if err := json.Unmarshal(tuple[0], &u.ID); err != nil {
		return fmt.Errorf("ingest: decode pgp user id: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &u.Name); err != nil {
		return fmt.Errorf("ingest: decode pgp user name: %w", err)
	}
	if err := json.Unmarshal(tuple[2], &u.Keys); err != nil {
		return fmt.Errorf("ingest: decode pgp user keys: %w", err)
	}
	return nil
}

// HNAddress is one [currency, address] pair.
type HNAddress struct {
	Currency string
	Address  string
}

func (a *HNAddress) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("ingest: decode hn address record: %w", err)
	}
	if err := json.Unmarshal(tuple[0], &a.Currency); err != nil {
		return fmt.Errorf("ingest: decode hn address currency: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &a.Address); err != nil {
		return fmt.Errorf("ingest: decode hn address value: %w", err)
	}
	return nil
}

// HNPrimaryKey is the [fingerprint, kid, ktype, ctime, mtime, armored_bundle]
// tuple carrying a social-news user's primary PGP key.
type HNPrimaryKey struct {
	Fingerprint   string
	KID           string
	KType         string
	CTime         int64
	MTime         int64
	ArmoredBundle string
}

func (p *HNPrimaryKey) UnmarshalJSON(data []byte) error {
	var tuple [6]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("ingest: decode hn primary key record: %w", err)
	}
	fields := []struct {
		raw json.RawMessage
		dst any
	}{
		{tuple[0], &p.Fingerprint},
		{tuple[1], &p.KID},
		{tuple[2], &p.KType},
		{tuple[3], &p.CTime},
		{tuple[4], &p.MTime},
		{tuple[5], &p.ArmoredBundle},
	}
	for i, f := range fields {
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return fmt.Errorf("ingest: decode hn primary key field %d: %w", i, err)
		}
	}
	return nil
}

// HNEntry is one [hn_user, keybase_user, primary, addrs] entry from
// hn-keys.json. Primary is nil when the user has no PGP key on file.
type HNEntry struct {
	HNUser      string
	KeybaseUser string
	Primary     *HNPrimaryKey
	Addrs       []HNAddress
}

func (e *HNEntry) UnmarshalJSON(data []byte) error {
	var tuple [4]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("ingest: decode hn entry record: %w", err)
	}
	if err := json.Unmarshal(tuple[0], &e.HNUser); err != nil {
		return fmt.Errorf("ingest: decode hn_user: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &e.KeybaseUser); err != nil {
		return fmt.Errorf("ingest: decode keybase_user: %w", err)
	}
	if string(tuple[2]) != "null" {
		e.Primary = &HNPrimaryKey{}
		if err := json.Unmarshal(tuple[2], e.Primary); err != nil {
			return fmt.Errorf("ingest: decode hn primary: %w", err)
		}
	}
	if err := json.Unmarshal(tuple[3], &e.Addrs); err != nil {
		return fmt.Errorf("ingest: decode hn addrs: %w", err)
	}
	return nil
}

// LoadSSHUsers reads github-ssh.json.
func LoadSSHUsers(path string) ([]SSHUser, error) {
	var users []SSHUser
	if err := loadJSON(path, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// LoadPGPUsers reads github-pgp.json.
func LoadPGPUsers(path string) ([]PGPUser, error) {
	var users []PGPUser
	if err := loadJSON(path, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// LoadHNEntries reads hn-keys.json.
func LoadHNEntries(path string) ([]HNEntry, error) {
	var entries []HNEntry
	if err := loadJSON(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadStrongSet reads the raw PEM-armored strongset.asc bytes.
func LoadStrongSet(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read %s: %w", path, err)
	}
	return raw, nil
}

func loadJSON(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ingest: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("ingest: parse %s: %w", path, err)
	}
	return nil
}
