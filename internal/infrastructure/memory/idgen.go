package memory

import "sync/atomic"

// IDGenerator は単調増加するIDを採番する
// 複数のゴルーチンから同時に呼び出しても重複しない
type IDGenerator struct {
	next atomic.Uint64
}

// NewIDGenerator は start から採番を開始するジェネレーターを作成する
func NewIDGenerator(start uint64) *IDGenerator {
	g := &IDGenerator{}
	g.next.Store(start)
	return g
}

// Next は未使用のIDを採番する
func (g *IDGenerator) Next() uint64 {
	return g.next.Add(1) - 1
}

// Peek は次に採番されるIDを返す（採番はしない）
func (g *IDGenerator) Peek() uint64 {
	return g.next.Load()
}

// SeedFrom は既存IDの最大値 + 1 を返す。既存IDがない場合は 0
func SeedFrom(ids ...uint64) uint64 {
	if len(ids) == 0 {
		return 0
	}
	var highest uint64
	for _, id := range ids {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}
