package silo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessTableClaimReadThenRead(t *testing.T) {
	a := newAccessTable()
	assert.NoError(t, a.claimRead(1))
	assert.NoError(t, a.claimRead(1), "two reads of the same component never conflict")
}

func TestAccessTableClaimWriteThenWrite(t *testing.T) {
	a := newAccessTable()
	assert.NoError(t, a.claimWrite(1))
	err := a.claimWrite(1)
	assert.Error(t, err)
	cerr := err.(AccessConflictError)
	assert.Equal(t, ConflictMutableAlias, cerr.Kind)
}

func TestAccessTableClaimReadThenWrite(t *testing.T) {
	a := newAccessTable()
	assert.NoError(t, a.claimRead(1))
	err := a.claimWrite(1)
	assert.Error(t, err)
	cerr := err.(AccessConflictError)
	assert.Equal(t, ConflictReadWrite, cerr.Kind)
}

func TestAccessTableClaimWriteThenRead(t *testing.T) {
	a := newAccessTable()
	assert.NoError(t, a.claimWrite(1))
	err := a.claimRead(1)
	assert.Error(t, err)
}

func TestAccessTableConflictsWith(t *testing.T) {
	a := newAccessTable()
	assert.NoError(t, a.claimWrite(1))

	b := newAccessTable()
	assert.NoError(t, b.claimRead(1))

	assert.True(t, a.ConflictsWith(b))

	c := newAccessTable()
	assert.NoError(t, c.claimRead(2))
	assert.False(t, a.ConflictsWith(c), "disjoint component claims never conflict")
}
