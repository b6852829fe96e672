package keeper

import "encoding/binary"

// Store key prefixes. Records are JSON encoded under byte-prefixed keys so
// each record family iterates as one contiguous range.
var (
	poolKeyPrefix           = []byte{0x01}
	poolByPairKeyPrefix     = []byte{0x02}
	positionKeyPrefix       = []byte{0x03}
	traderActivityKeyPrefix = []byte{0x04}
	crossChainSwapKeyPrefix = []byte{0x05}
	swapSequenceKey         = []byte{0x06}
)

func poolKey(poolID string) []byte {
	return append(poolKeyPrefix, []byte(poolID)...)
}

// poolByPairKey indexes a pool by its canonical asset pair and fee tier, so
// lookups by pair do not scan the pool range.
func poolByPairKey(asset0, asset1 string, feeTierBps uint32) []byte {
	key := append(poolByPairKeyPrefix, []byte(asset0)...)
	key = append(key, 0x00)
	key = append(key, []byte(asset1)...)
	key = append(key, 0x00)
	feeBz := make([]byte, 4)
	binary.BigEndian.PutUint32(feeBz, feeTierBps)
	return append(key, feeBz...)
}

func positionKey(poolID, owner string, tickLower, tickUpper int64) []byte {
	key := append(positionKeyPrefix, []byte(poolID)...)
	key = append(key, 0x00)
	key = append(key, []byte(owner)...)
	key = append(key, 0x00)
	tickBz := make([]byte, 16)
	binary.BigEndian.PutUint64(tickBz[:8], uint64(tickLower))
	binary.BigEndian.PutUint64(tickBz[8:], uint64(tickUpper))
	return append(key, tickBz...)
}

func positionPoolPrefix(poolID string) []byte {
	key := append(positionKeyPrefix, []byte(poolID)...)
	return append(key, 0x00)
}

func traderActivityKey(trader string) []byte {
	return append(traderActivityKeyPrefix, []byte(trader)...)
}

func crossChainSwapKey(swapHash string) []byte {
	return append(crossChainSwapKeyPrefix, []byte(swapHash)...)
}

// prefixEndBytes returns the exclusive upper bound of a prefix range.
func prefixEndBytes(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] != 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
