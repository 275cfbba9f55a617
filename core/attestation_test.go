package core

import (
	"errors"
	"testing"
)

type testEnv struct {
	st       *InMemoryState
	issuers  *IssuerRegistry
	schemas  *SchemaRegistry
	attests  *AttestationStore
	algos    *AlgorithmRegistry
	origin   Principal
	issuerH  Hash
}

func newTestEnv(t *testing.T, fields []SchemaField, exts []ExtensionData) (*testEnv, Hash) {
	t.Helper()
	st := NewInMemoryState()
	issuers := NewIssuerRegistry(st, st, NopBus{}, DefaultLimits)
	schemas := NewSchemaRegistry(st, issuers, NopBus{}, DefaultLimits)
	attests := NewAttestationStore(st, issuers, schemas, NopBus{}, DefaultLimits)
	algos := NewAlgorithmRegistry(st, NopBus{}, DefaultLimits)

	var origin Principal
	origin[0] = 1
	st.Credit(origin, DefaultLimits.IssuerRegistryDeposit)
	issuerHash, err := issuers.CreateIssuer(origin, []byte("acme"), []Principal{origin})
	if err != nil {
		t.Fatalf("CreateIssuer: %v", err)
	}
	schemaHash, err := schemas.CreateSchema(origin, issuerHash, fields, exts)
	if err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	return &testEnv{st: st, issuers: issuers, schemas: schemas, attests: attests, algos: algos, origin: origin, issuerH: issuerHash}, schemaHash
}

func testAccount() AcquirerAddress {
	var acc [20]byte
	acc[0] = 7
	return AcquirerAddress{Kind: AddressEthereum, Account20: acc}
}

func TestAttestAndGet(t *testing.T) {
	env, schemaHash := newTestEnv(t, []SchemaField{{Name: []byte("age"), Type: CredU8}}, nil)
	account := testAccount()

	idx, err := env.attests.Attest(env.origin, env.issuerH, schemaHash, account, [][]byte{{42}}, 1)
	if err != nil {
		t.Fatalf("Attest: %v", err)
	}
	if idx != 0 {
		t.Fatalf("first attestation index = %d, want 0", idx)
	}
	got, err := env.attests.Get(account, env.issuerH, schemaHash, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 1 || got[0][0] != 42 {
		t.Errorf("Get returned %v", got)
	}
}

func TestAttestFieldCountMismatch(t *testing.T) {
	env, schemaHash := newTestEnv(t, []SchemaField{{Name: []byte("age"), Type: CredU8}}, nil)
	account := testAccount()
	_, err := env.attests.Attest(env.origin, env.issuerH, schemaHash, account, [][]byte{{1}, {2}}, 1)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Attest with wrong field count = %v, want ErrInvalidFormat", err)
	}
}

func TestAttestFixedWidthOverflowRejected(t *testing.T) {
	env, schemaHash := newTestEnv(t, []SchemaField{{Name: []byte("age"), Type: CredU8}}, nil)
	account := testAccount()
	_, err := env.attests.Attest(env.origin, env.issuerH, schemaHash, account, [][]byte{{1, 2}}, 1)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Attest with oversized fixed-width value = %v, want ErrInvalidFormat", err)
	}
}

func TestAttestRejectsEmptyFixedWidthValue(t *testing.T) {
	env, schemaHash := newTestEnv(t, []SchemaField{{Name: []byte("age"), Type: CredU8}}, nil)
	account := testAccount()
	_, err := env.attests.Attest(env.origin, env.issuerH, schemaHash, account, [][]byte{{}}, 1)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Attest with empty fixed-width value = %v, want ErrInvalidFormat", err)
	}
}

func TestAttestRejectsEmptyTextValue(t *testing.T) {
	env, schemaHash := newTestEnv(t, []SchemaField{{Name: []byte("bio"), Type: CredText}}, nil)
	account := testAccount()
	_, err := env.attests.Attest(env.origin, env.issuerH, schemaHash, account, [][]byte{{}}, 1)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Attest with empty text value = %v, want ErrInvalidFormat", err)
	}
}

func TestAttestHashFieldAcceptsHexAndRaw(t *testing.T) {
	env, schemaHash := newTestEnv(t, []SchemaField{{Name: []byte("doc"), Type: CredHash}}, nil)
	account := testAccount()

	raw := make([]byte, HashSize)
	raw[0] = 0xAB
	if _, err := env.attests.Attest(env.origin, env.issuerH, schemaHash, account, [][]byte{raw}, 1); err != nil {
		t.Fatalf("Attest raw hash: %v", err)
	}

	hexDigits := make([]byte, HashSize*2)
	for i := range hexDigits {
		hexDigits[i] = '0'
	}
	hexDigits[0], hexDigits[1] = 'a', 'b'
	hexForm := append([]byte("0x"), hexDigits...)
	if _, err := env.attests.Attest(env.origin, env.issuerH, schemaHash, account, [][]byte{hexForm}, 2); err != nil {
		t.Fatalf("Attest hex hash: %v", err)
	}
}

func TestAttestNotAuthorized(t *testing.T) {
	env, schemaHash := newTestEnv(t, []SchemaField{{Name: []byte("age"), Type: CredU8}}, nil)
	var stranger Principal
	stranger[0] = 99
	account := testAccount()
	_, err := env.attests.Attest(stranger, env.issuerH, schemaHash, account, [][]byte{{1}}, 1)
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("Attest by stranger = %v, want ErrNotAuthorized", err)
	}
}

func TestAttestRejectsAlreadyExpired(t *testing.T) {
	exts := []ExtensionData{{Tag: ExtensionExpiry, ExpiryBlock: 5}}
	env, schemaHash := newTestEnv(t, []SchemaField{{Name: []byte("age"), Type: CredU8}}, exts)
	account := testAccount()
	_, err := env.attests.Attest(env.origin, env.issuerH, schemaHash, account, [][]byte{{1}}, 10)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Attest already-expired = %v, want ErrInvalidFormat", err)
	}
}

func TestUpdateAttestationOutOfRange(t *testing.T) {
	env, schemaHash := newTestEnv(t, []SchemaField{{Name: []byte("age"), Type: CredU8}}, nil)
	account := testAccount()
	err := env.attests.UpdateAttestation(env.origin, env.issuerH, schemaHash, account, 0, [][]byte{{1}}, 1)
	if !errors.Is(err, ErrAttestationNotFound) {
		t.Fatalf("UpdateAttestation on empty list = %v, want ErrAttestationNotFound", err)
	}
}

func TestUpdateAttestationOverwrites(t *testing.T) {
	env, schemaHash := newTestEnv(t, []SchemaField{{Name: []byte("age"), Type: CredU8}}, nil)
	account := testAccount()
	if _, err := env.attests.Attest(env.origin, env.issuerH, schemaHash, account, [][]byte{{1}}, 1); err != nil {
		t.Fatalf("Attest: %v", err)
	}
	if err := env.attests.UpdateAttestation(env.origin, env.issuerH, schemaHash, account, 0, [][]byte{{2}}, 1); err != nil {
		t.Fatalf("UpdateAttestation: %v", err)
	}
	got, err := env.attests.Get(account, env.issuerH, schemaHash, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got[0][0] != 2 {
		t.Errorf("Get after update = %v, want [2]", got)
	}
}

func TestLastReturnsNewest(t *testing.T) {
	env, schemaHash := newTestEnv(t, []SchemaField{{Name: []byte("age"), Type: CredU8}}, nil)
	account := testAccount()
	for i := byte(1); i <= 3; i++ {
		if _, err := env.attests.Attest(env.origin, env.issuerH, schemaHash, account, [][]byte{{i}}, uint64(i)); err != nil {
			t.Fatalf("Attest: %v", err)
		}
	}
	att, idx, err := env.attests.Last(account, env.issuerH, schemaHash)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if idx != 2 || att[0][0] != 3 {
		t.Errorf("Last = idx %d val %v, want idx 2 val [3]", idx, att)
	}
}

func TestLastNotFoundWhenEmpty(t *testing.T) {
	env, schemaHash := newTestEnv(t, []SchemaField{{Name: []byte("age"), Type: CredU8}}, nil)
	account := testAccount()
	if _, _, err := env.attests.Last(account, env.issuerH, schemaHash); !errors.Is(err, ErrAttestationNotFound) {
		t.Fatalf("Last on empty store = %v, want ErrAttestationNotFound", err)
	}
}
