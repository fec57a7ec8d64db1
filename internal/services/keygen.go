package services

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// AutoGenerateSKU is the sentinel clients send to request a server-side sku.
const AutoGenerateSKU = "AUTO-GENERATE"

// The 4+3 digit keyspace is finite, so generation is capped rather than
// looping forever.
const maxSKUAttempts = 1000

// skuStore is the slice of the item repo that key generation needs.
type skuStore interface {
	Exists(q sqlx.Ext, sku string) (bool, error)
}

type KeyGen struct {
	Items skuStore
}

func NewKeyGen(items skuStore) *KeyGen { return &KeyGen{Items: items} }

// GenerateUniqueSKU builds prefix-<4 random digits>-<3 time digits>
// candidates until one misses the store. The existence check runs against q
// so callers inside a transaction see their own writes; the items primary
// key still backstops any race.
func (g *KeyGen) GenerateUniqueSKU(q sqlx.Ext, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "SKU"
	}
	for i := 0; i < maxSKUAttempts; i++ {
		candidate := fmt.Sprintf("%s-%04d-%03d", prefix, rand.IntN(10000), time.Now().UnixMilli()%1000)
		exists, err := g.Items.Exists(q, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}

// ResolveItemSKU decides the sku an item will be stored under. Empty or
// sentinel input delegates to generation. A requested sku that already
// exists is renamed with a time-derived 4-digit suffix instead of being
// rejected; item creation never conflicts on sku. Shipments deliberately
// do not get this treatment (duplicate shipment ids are conflicts).
func (g *KeyGen) ResolveItemSKU(q sqlx.Ext, requested, prefix string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" || requested == AutoGenerateSKU {
		return g.GenerateUniqueSKU(q, prefix)
	}
	exists, err := g.Items.Exists(q, requested)
	if err != nil {
		return "", err
	}
	if !exists {
		return requested, nil
	}
	for i := 0; i < maxSKUAttempts; i++ {
		suffix := (time.Now().UnixMilli() + int64(i)) % 10000
		candidate := fmt.Sprintf("%s-%04d", requested, suffix)
		exists, err := g.Items.Exists(q, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}
