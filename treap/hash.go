package treap

// intmix is Thomas Wang's 64-bit integer mix function. Node priorities
// are derived from element hashes with it, so that user-supplied hash
// functions of modest quality still yield well-distributed heap keys.
func intmix(key uint64) uint64 {
	key = ^key + key<<21
	key ^= key >> 24
	key = key + key<<3 + key<<8
	key ^= key >> 14
	key = key + key<<2 + key<<4
	key ^= key >> 28
	key += key << 31
	return key
}

func hashCombine(h1, h2 uint64) uint64 {
	return h1 ^ (h2 + 0x9e3779b9 + h1<<6 + h1>>2)
}

func hashCombine3(h1, h2, h3 uint64) uint64 {
	return hashCombine(hashCombine(h1, h2), h3)
}

func hashCombine4(h1, h2, h3, h4 uint64) uint64 {
	return hashCombine(hashCombine(h1, h2), hashCombine(h3, h4))
}
