package shard

import (
	"fmt"
	"math/big"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// normalizeSeed accepts the seed shapes Config documents — int/int64,
// *big.Int, string, or uuid.UUID — and folds any of them down to a
// uint64 PCG seed via xxhash, so construction is reproducible regardless
// of which shape the caller picked.
func normalizeSeed(seed any) uint64 {
	switch v := seed.(type) {
	case nil:
		return 0
	case uint64:
		return v
	case int:
		return xxhash.Sum64(big.NewInt(int64(v)).Bytes())
	case int64:
		return xxhash.Sum64(big.NewInt(v).Bytes())
	case *big.Int:
		return xxhash.Sum64(v.Bytes())
	case string:
		return xxhash.Sum64String(v)
	case uuid.UUID:
		return xxhash.Sum64(v[:])
	default:
		return xxhash.Sum64String(fmt.Sprintf("%v", v))
	}
}
