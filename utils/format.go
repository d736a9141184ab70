package utils

// ShortAddr renders a 0x-prefixed address as "0xXXXXXXXX...XXXXXX" for
// human-readable output. Strings too short to truncate pass through.
func ShortAddr(addr string) string {
	if len(addr) <= 16 {
		return addr
	}
	return addr[:10] + "..." + addr[len(addr)-6:]
}
