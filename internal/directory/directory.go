package directory

import (
	"errors"
	"log/slog"
	"strings"

	"creatorpay/internal/logging"
	"creatorpay/internal/platform"
)

// ErrEmptyDirectory is returned when a roster yields no creators at all.
var ErrEmptyDirectory = errors.New("creator directory is empty")

// AccountType tags what an account is used for in the roster.
type AccountType string

const (
	AccountContact   AccountType = "Contact account"
	AccountInstagram AccountType = "Mathos Ins"
	AccountTikTok    AccountType = "Mathos TT"
	AccountYouTube   AccountType = "Mathos YT"
)

// ParseAccountType recognises the roster account type labels.
func ParseAccountType(value string) (AccountType, bool) {
	switch t := AccountType(strings.TrimSpace(value)); t {
	case AccountContact, AccountInstagram, AccountTikTok, AccountYouTube:
		return t, true
	default:
		return "", false
	}
}

// Platform returns the network an account type publishes to. Contact
// accounts are resolved from their URL.
func (a Account) Platform() platform.Platform {
	switch a.Type {
	case AccountInstagram:
		return platform.Instagram
	case AccountTikTok:
		return platform.TikTok
	case AccountYouTube:
		return platform.YouTube
	default:
		return platform.FromURL(a.URL)
	}
}

// Account is one platform identity owned by a creator. Handle and URL may be
// empty.
type Account struct {
	Type   AccountType `json:"type" yaml:"type"`
	Handle string      `json:"handle,omitempty" yaml:"handle"`
	URL    string      `json:"url,omitempty" yaml:"url"`
}

// Creator is a named content producer and the accounts it owns.
type Creator struct {
	Name     string    `json:"name" yaml:"name"`
	Accounts []Account `json:"accounts" yaml:"accounts"`
}

// URLs returns the non-empty account URLs in roster order.
func (c Creator) URLs() []string {
	urls := make([]string, 0, len(c.Accounts))
	for _, acc := range c.Accounts {
		if u := strings.TrimSpace(acc.URL); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Handles returns the non-empty account handles in roster order.
func (c Creator) Handles() []string {
	handles := make([]string, 0, len(c.Accounts))
	for _, acc := range c.Accounts {
		if h := strings.TrimSpace(acc.Handle); h != "" {
			handles = append(handles, h)
		}
	}
	return handles
}

// IndexKind names one of the lookup indices.
type IndexKind string

const (
	IndexURL    IndexKind = "url"
	IndexHandle IndexKind = "handle"
	IndexName   IndexKind = "name"
)

// Collision records an index key claimed by more than one creator. The later
// creator in roster order owns the key.
type Collision struct {
	Index    IndexKind `json:"index"`
	Key      string    `json:"key"`
	Previous string    `json:"previous"`
	Winner   string    `json:"winner"`
}

type knownHandle struct {
	handle  string
	creator *Creator
}

// Directory owns a fixed set of creators plus lookup indices derived from
// them. It is immutable after New returns and safe for concurrent readers.
type Directory struct {
	creators   []*Creator
	byURL      map[string]*Creator
	byHandle   map[string]*Creator
	byName     map[string]*Creator
	handles    []knownHandle
	collisions []Collision
}

// New copies creators into a Directory and builds its indices. Creators with
// a blank name are ignored.
func New(creators []Creator, logger *slog.Logger) *Directory {
	logger = logging.NewComponentLogger(logger, "directory")
	d := &Directory{
		byURL:    make(map[string]*Creator),
		byHandle: make(map[string]*Creator),
		byName:   make(map[string]*Creator),
	}
	for _, src := range creators {
		name := strings.TrimSpace(src.Name)
		if name == "" {
			continue
		}
		c := &Creator{Name: name, Accounts: append([]Account(nil), src.Accounts...)}
		d.creators = append(d.creators, c)
		d.index(c)
	}
	for _, col := range d.collisions {
		logger.Debug("directory index collision",
			logging.String("index", string(col.Index)),
			logging.String("key", col.Key),
			logging.String("previous", col.Previous),
			logging.String("winner", col.Winner),
		)
	}
	logger.Debug("directory built",
		logging.Int("creators", len(d.creators)),
		logging.Int("urls", len(d.byURL)),
		logging.Int("handles", len(d.byHandle)),
	)
	return d
}

func (d *Directory) index(c *Creator) {
	d.put(IndexName, d.byName, NormalizeName(c.Name), c)
	for _, u := range c.URLs() {
		d.put(IndexURL, d.byURL, NormalizeURL(u), c)
		d.put(IndexURL, d.byURL, u, c)
		for _, h := range ExtractHandles(u) {
			d.put(IndexHandle, d.byHandle, h.Handle, c)
		}
	}
	for _, h := range c.Handles() {
		normalized := NormalizeHandle(h)
		if normalized == "" {
			continue
		}
		d.put(IndexHandle, d.byHandle, normalized, c)
		d.handles = append(d.handles, knownHandle{handle: normalized, creator: c})
	}
}

func (d *Directory) put(kind IndexKind, index map[string]*Creator, key string, c *Creator) {
	if key == "" {
		return
	}
	if prev, ok := index[key]; ok && prev != c {
		d.collisions = append(d.collisions, Collision{Index: kind, Key: key, Previous: prev.Name, Winner: c.Name})
	}
	index[key] = c
}

// Len returns the number of creators.
func (d *Directory) Len() int { return len(d.creators) }

// Creators returns copies of all creators in roster order.
func (d *Directory) Creators() []Creator {
	out := make([]Creator, 0, len(d.creators))
	for _, c := range d.creators {
		out = append(out, Creator{Name: c.Name, Accounts: append([]Account(nil), c.Accounts...)})
	}
	return out
}

// Collisions lists index keys claimed by more than one creator.
func (d *Directory) Collisions() []Collision {
	return append([]Collision(nil), d.collisions...)
}

// ByURL looks a URL up as given, then in normalized form.
func (d *Directory) ByURL(rawURL string) (*Creator, bool) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, false
	}
	if c, ok := d.byURL[rawURL]; ok {
		return c, true
	}
	c, ok := d.byURL[NormalizeURL(rawURL)]
	return c, ok
}

// ByHandle looks a handle up after normalization.
func (d *Directory) ByHandle(handle string) (*Creator, bool) {
	key := NormalizeHandle(handle)
	if key == "" {
		return nil, false
	}
	c, ok := d.byHandle[key]
	return c, ok
}

// ByName looks a creator up by display name, ignoring case and surrounding
// whitespace.
func (d *Directory) ByName(name string) (*Creator, bool) {
	key := NormalizeName(name)
	if key == "" {
		return nil, false
	}
	c, ok := d.byName[key]
	return c, ok
}

// EachHandle calls fn for every roster account handle (normalized) in roster
// order until fn returns false.
func (d *Directory) EachHandle(fn func(handle string, c *Creator) bool) {
	for _, kh := range d.handles {
		if !fn(kh.handle, kh.creator) {
			return
		}
	}
}
