package gleaner

import "math/rand/v2"

// ChooseProxy picks one proxy endpoint uniformly at random, or returns the
// empty string when the list is empty (direct connection). Selection
// happens once per browser-session startup; a session's proxy is fixed for
// its lifetime.
func ChooseProxy(proxies []string) string {
	if len(proxies) == 0 {
		return ""
	}
	return proxies[rand.IntN(len(proxies))]
}
