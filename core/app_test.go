package core

import "testing"

func TestNewAppWiresCollaborators(t *testing.T) {
	st := NewInMemoryState()
	app := NewApp(st, st, NopBus{}, DefaultLimits)

	if app.Issuers == nil || app.Schemas == nil || app.Attestations == nil || app.Algorithms == nil || app.Evaluator == nil {
		t.Fatal("NewApp left a collaborator nil")
	}
	if app.State != st || app.Balances != st {
		t.Error("NewApp did not wire the given state/balance backend through")
	}
}

func TestInitAppAndCurrent(t *testing.T) {
	st := NewInMemoryState()
	app := NewApp(st, st, NopBus{}, DefaultLimits)
	InitApp(app)
	if Current() != app {
		t.Error("Current() did not return the installed App")
	}
}

func TestNewAppEndToEndWiringSharesRegistry(t *testing.T) {
	st := NewInMemoryState()
	app := NewApp(st, st, NopBus{}, DefaultLimits)

	var origin Principal
	origin[0] = 5
	st.Credit(origin, DefaultLimits.IssuerRegistryDeposit)
	issuerHash, err := app.Issuers.CreateIssuer(origin, []byte("acme"), []Principal{origin})
	if err != nil {
		t.Fatalf("CreateIssuer: %v", err)
	}
	// Schemas must see the same issuer registry App.Issuers wrote to.
	if _, err := app.Schemas.CreateSchema(origin, issuerHash, []SchemaField{{Name: []byte("x"), Type: CredU8}}, nil); err != nil {
		t.Fatalf("CreateSchema against shared issuer registry: %v", err)
	}
}
