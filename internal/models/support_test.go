package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportTypeList_Union(t *testing.T) {
	t.Parallel()

	a := SupportTypeList{SupportLaptop, SupportTuition}
	b := SupportTypeList{SupportTuition, SupportMotorbike}

	assert.Equal(t, SupportTypeList{SupportLaptop, SupportTuition, SupportMotorbike}, a.Union(b))
	assert.Equal(t, SupportTypeList{SupportLaptop}, SupportTypeList{SupportLaptop}.Union(nil))
	assert.Equal(t, SupportTypeList{SupportLaptop}, SupportTypeList(nil).Union(SupportTypeList{SupportLaptop}))
}

func TestSupportTypeList_ScanValueRoundTrip(t *testing.T) {
	t.Parallel()

	in := SupportTypeList{SupportLaptop, SupportComponents}
	v, err := in.Value()
	require.NoError(t, err)
	assert.Equal(t, `["laptop","components"]`, v)

	var out SupportTypeList
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)

	var fromNil SupportTypeList
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(500000), ParseAmount("500000"))
	assert.Equal(t, int64(500000), ParseAmount("  500000 "))
	assert.Equal(t, int64(0), ParseAmount(""))
	assert.Equal(t, int64(0), ParseAmount("5tr"))
	assert.Equal(t, int64(0), ParseAmount("-100"))
}

func TestSupportType_IsValid(t *testing.T) {
	t.Parallel()

	for _, st := range AllSupportTypes {
		assert.True(t, st.IsValid())
	}
	assert.False(t, SupportType("bicycle").IsValid())
}
