package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityFor(t *testing.T) {
	cases := []struct {
		stock   int
		reorder int
		want    string
	}{
		{0, 10, SeverityOutOfStock},
		{0, 0, SeverityOutOfStock},
		{1, 10, SeverityCritical},
		{5, 10, SeverityCritical}, // at floor(reorder/2)
		{6, 10, SeverityLow},
		{10, 10, SeverityLow},
		{2, 5, SeverityCritical}, // floor(5/2) = 2
		{3, 5, SeverityLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SeverityFor(tc.stock, tc.reorder), "stock=%d reorder=%d", tc.stock, tc.reorder)
	}
}
