// Issuer registry: a state-backed singleton keyed by content hash, bounded
// name/controller records, and a balance-reservation deposit on creation.
package core

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Issuer is a named authority whose controllers may create schemas and
// attestations. Name is write-once once Issuers contains its hash;
// Controllers is mutable and always duplicate-free (set semantics).
type Issuer struct {
	Name        []byte
	Controllers []Principal
}

// HasController reports whether who is a current controller.
func (i Issuer) HasController(who Principal) bool {
	for _, c := range i.Controllers {
		if c == who {
			return true
		}
	}
	return false
}

const issuerKeyPrefix = "issuer:"

func issuerKey(h Hash) []byte { return append([]byte(issuerKeyPrefix), h[:]...) }

// IssuerRegistry stores issuer records and authorizes mutations.
type IssuerRegistry struct {
	mu     sync.Mutex
	st     StateRW
	bal    BalanceReserver
	bus    EventBus
	limits Limits
}

// NewIssuerRegistry constructs a registry backed by st, charging deposits
// via bal and publishing events to bus.
func NewIssuerRegistry(st StateRW, bal BalanceReserver, bus EventBus, limits Limits) *IssuerRegistry {
	return &IssuerRegistry{st: st, bal: bal, bus: bus, limits: limits}
}

// CreateIssuer enforces name/controller bounds, deduplicates controllers,
// reserves IssuerRegistryDeposit from origin, and writes the record keyed by
// H(name). Fails IssuerAlreadyExists on hash collision.
func (r *IssuerRegistry) CreateIssuer(origin Principal, name []byte, controllers []Principal) (Hash, error) {
	if len(name) > r.limits.MaxNameLength {
		return Hash{}, ErrIssuerNameTooLong
	}
	deduped := dedupPrincipals(controllers)
	if len(deduped) > r.limits.MaxControllers {
		return Hash{}, ErrTooManyControllers
	}

	hash := hashBytes(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	key := issuerKey(hash)
	if ok, _ := r.st.HasState(key); ok {
		return Hash{}, ErrIssuerAlreadyExists
	}
	if err := r.bal.Reserve(origin, r.limits.IssuerRegistryDeposit); err != nil {
		return Hash{}, ErrInsufficientBalance
	}

	issuer := Issuer{Name: append([]byte(nil), name...), Controllers: deduped}
	encoded, err := encodeIssuer(issuer)
	if err != nil {
		return Hash{}, err
	}
	if err := r.st.SetState(key, encoded); err != nil {
		return Hash{}, err
	}
	log.WithField("issuer_hash", hash).Info("issuer created")
	r.bus.Emit(IssuerCreated{Hash: hash, Name: issuer.Name, Controllers: issuer.Controllers})
	return hash, nil
}

// EditControllers requires origin to be a current controller, then replaces
// the controller set wholesale. The name/hash is immutable.
func (r *IssuerRegistry) EditControllers(origin Principal, issuerHash Hash, newControllers []Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	issuer, err := r.getLocked(issuerHash)
	if err != nil {
		return err
	}
	if !issuer.HasController(origin) {
		return ErrNotAuthorized
	}
	deduped := dedupPrincipals(newControllers)
	if len(deduped) > r.limits.MaxControllers {
		return ErrTooManyControllers
	}
	issuer.Controllers = deduped

	encoded, err := encodeIssuer(issuer)
	if err != nil {
		return err
	}
	if err := r.st.SetState(issuerKey(issuerHash), encoded); err != nil {
		return err
	}
	log.WithField("issuer_hash", issuerHash).Info("issuer controllers updated")
	r.bus.Emit(IssuerUpdated{Hash: issuerHash, Name: issuer.Name, Controllers: issuer.Controllers})
	return nil
}

// Get fetches an issuer by hash, failing with ErrIssuerNotFound.
func (r *IssuerRegistry) Get(hash Hash) (Issuer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(hash)
}

func (r *IssuerRegistry) getLocked(hash Hash) (Issuer, error) {
	raw, err := r.st.GetState(issuerKey(hash))
	if err != nil {
		return Issuer{}, ErrIssuerNotFound
	}
	return decodeIssuer(raw)
}

func dedupPrincipals(in []Principal) []Principal {
	out := make([]Principal, 0, len(in))
	seen := make(map[Principal]struct{}, len(in))
	for _, p := range in {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func hashBytes(b []byte) Hash { return shaHash(b) }
