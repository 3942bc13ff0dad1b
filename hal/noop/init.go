package noop

import "github.com/gogpu/graphcore/hal"

// init registers the mock backend with the HAL registry.
func init() {
	hal.RegisterBackend(Backend{})
}
