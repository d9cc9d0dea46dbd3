package authentication

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumAddress(t *testing.T) {
	// Known EIP-55 vectors.
	cases := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, want := range cases {
		got, err := ChecksumAddress(strings.ToLower(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)

		// Already-checksummed input is a fixed point.
		got, err = ChecksumAddress(want)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestChecksumAddress_Invalid(t *testing.T) {
	for _, bad := range []string{
		"",
		"0x",
		"5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAedd",
		"0xZZZeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	} {
		_, err := ChecksumAddress(bad)
		assert.Error(t, err, "address %q should be rejected", bad)
	}
}
