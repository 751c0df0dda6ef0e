package item

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationParser_Parse(t *testing.T) {
	p := NewDurationParser()

	tests := []struct {
		code string
		want uint64
	}{
		{"PT1H35M7S", 5707},
		{"PT45S", 45},
		{"PT", 0},
		{"PT2H", 7200},
		{"PT42M", 42 * 60},
		{"PT42M12S", 42*60 + 12},
		{"PT1H42M12S", 3600 + 42*60 + 12},
		{"PT0H0M0S", 0},
		{"PT100H", 360000},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := p.Parse(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDurationParser_Malformed(t *testing.T) {
	p := NewDurationParser()

	for _, code := range []string{
		"",
		"1H2M",
		"P1D",
		"PT5S3M",
		"PT-1H",
		"PTxM",
		"pt1h",
		"PT1H ",
		"PT99999999999999999999S",
		"PT9999999999999999999H",
	} {
		t.Run(code, func(t *testing.T) {
			got, err := p.Parse(code)
			assert.ErrorIs(t, err, ErrMalformedDuration)
			assert.Zero(t, got)
		})
	}
}

func TestDurationParser_Generated(t *testing.T) {
	p := NewDurationParser()

	for _, h := range []uint64{0, 1, 24} {
		for _, m := range []uint64{0, 7, 59} {
			for _, s := range []uint64{0, 1, 60} {
				code := "PT"
				if h > 0 {
					code += strconv.FormatUint(h, 10) + "H"
				}
				if m > 0 {
					code += strconv.FormatUint(m, 10) + "M"
				}
				if s > 0 {
					code += strconv.FormatUint(s, 10) + "S"
				}
				got, err := p.Parse(code)
				require.NoError(t, err, code)
				assert.Equal(t, h*3600+m*60+s, got, code)
			}
		}
	}
}
