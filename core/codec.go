package core

import "encoding/json"

// Storage encoding for registry records. The on-disk layout is logical, not
// byte-exact — the host framework chooses the physical encoding — so this
// package uses encoding/json throughout for every record type.

func encodeSchema(s Schema) ([]byte, error) { return json.Marshal(s) }
func decodeSchema(b []byte) (Schema, error) {
	var s Schema
	err := json.Unmarshal(b, &s)
	return s, err
}

func encodeIssuer(i Issuer) ([]byte, error) { return json.Marshal(i) }
func decodeIssuer(b []byte) (Issuer, error) {
	var i Issuer
	err := json.Unmarshal(b, &i)
	return i, err
}

func encodeAlgorithm(a Algorithm) ([]byte, error) { return json.Marshal(a) }
func decodeAlgorithm(b []byte) (Algorithm, error) {
	var a Algorithm
	err := json.Unmarshal(b, &a)
	return a, err
}

func encodeAttestation(a Attestation) ([]byte, error) { return json.Marshal(a) }
func decodeAttestation(b []byte) (Attestation, error) {
	var a Attestation
	err := json.Unmarshal(b, &a)
	return a, err
}
