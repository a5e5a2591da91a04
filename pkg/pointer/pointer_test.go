// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stories/pkg/pointer"
)

/*
TestTo verifies that the pointer refers to a copy.
*/
func TestTo(t *testing.T) {
	bio := "hola"
	got := pointer.To(bio)
	require.NotNil(t, got)

	bio = "changed"
	assert.Equal(t, "hola", *got)
}

/*
TestVal verifies nil and non-nil dereferencing.
*/
func TestVal(t *testing.T) {
	assert.Equal(t, "", pointer.Val[string](nil))
	assert.Equal(t, "es", pointer.Val(pointer.To("es")))
	assert.Equal(t, 0, pointer.Val[int](nil))
}
