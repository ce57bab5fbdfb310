package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldMigrate(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		force bool
		want  bool
	}{
		{"debug 模式默认迁移", "debug", false, true},
		{"release 模式默认跳过", "release", false, false},
		{"release 模式显式强制", "release", true, true},
		{"debug 模式显式强制", "debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldMigrate(tt.mode, tt.force))
		})
	}
}
