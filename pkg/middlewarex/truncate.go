package middlewarex

import "cpc_bidder/pkg/logx"

// maskAndTruncate masks first so a cut never leaves half a secret unmasked.
// A non-positive maxLen disables truncation.
func maskAndTruncate(masker logx.SensitiveDataMaskerInterface, dump []byte, maxLen int) string {
	dump = masker.Mask(dump)

	if maxLen > 0 && len(dump) > maxLen {
		dump = dump[:maxLen]
	}

	return string(dump)
}
