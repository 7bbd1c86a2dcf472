package game

import (
	"encoding/binary"
	"encoding/hex"
	"hash"

	"lukechampine.com/blake3"
)

// Digest hashes the diplomatic state of the game: every book entry in id order and the
// current deals. Two runs with the same seed produce the same digest every turn.
func (g *Game) Digest() string {
	h := blake3.New(32, nil)
	var tmp [8]byte
	writeInt(h, &tmp, int64(g.world.CurrentTurn()))
	for _, p := range g.order {
		writeInt(h, &tmp, int64(p))
		writeBool(h, g.world.IsAlive(p))
		writeInt(h, &tmp, int64(g.world.TreasuryGold(p)))
		b := g.books[p]
		for _, o := range b.Others() {
			s := b.Get(o)
			writeInt(h, &tmp, int64(o))
			writeInt(h, &tmp, int64(s.ApproachScore))
			writeInt(h, &tmp, int64(s.Approach))
			writeInt(h, &tmp, int64(s.Opinion))
			writeInt(h, &tmp, int64(s.OpinionWeight))
			writeInt(h, &tmp, int64(s.WarState))
			writeInt(h, &tmp, int64(s.WarProjection))
			writeInt(h, &tmp, int64(s.WarGoal))
			writeBool(h, s.DeclarationOfWar.IsActive())
			writeBool(h, s.PeaceTreaty.IsActive())
			writeBool(h, s.Friendship.IsActive())
			writeBool(h, s.OpenBorders.IsActive())
			writeBool(h, s.DefensivePact.IsActive())
			writeBool(h, s.ResearchAgreement.IsActive())
			writeBool(h, s.Denouncement.IsActive())
			writeBool(h, s.HasEmbassy)
			writeBool(h, s.HasDelegation)
		}
	}
	for _, d := range g.ledger.CurrentDeals() {
		writeInt(h, &tmp, int64(d.ID))
		writeInt(h, &tmp, int64(len(d.Items)))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeInt(h hash.Hash, tmp *[8]byte, v int64) {
	binary.LittleEndian.PutUint64(tmp[:], uint64(v))
	h.Write(tmp[:])
}

func writeBool(h hash.Hash, b bool) {
	if b {
		h.Write([]byte{1})
		return
	}
	h.Write([]byte{0})
}
