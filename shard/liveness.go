package shard

import "github.com/boopworld/boopworld/entity"

// storeLiveness adapts entity.Store's ID-typed Live/Generation methods to
// the int32-typed LivenessChecker interfaces refscope and internal/guard
// each declare, so both packages can stay decoupled from entity.ID.
type storeLiveness struct{ store *entity.Store }

func (a storeLiveness) Live(id int32) bool         { return a.store.Live(entity.ID(id)) }
func (a storeLiveness) Generation(id int32) uint32 { return a.store.Generation(entity.ID(id)) }
