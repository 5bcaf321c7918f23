// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package charlcd

import (
	"errors"
	"sync"
)

// MaxDevices is the capacity of the handle table.
const MaxDevices = 8

var (
	handleMu sync.Mutex
	handles  [MaxDevices]*Dev
)

var errNoFreeHandle = errors.New("charlcd: no free handle slot")

// claim reserves the lowest free slot in the handle table for dev.
func claim(dev *Dev) (int, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	for i := range handles {
		if handles[i] == nil {
			handles[i] = dev
			return i, nil
		}
	}
	return -1, errNoFreeHandle
}

// release returns dev's slot to the table. Safe to call more than once.
func release(dev *Dev) {
	handleMu.Lock()
	defer handleMu.Unlock()
	if dev.handle >= 0 && dev.handle < MaxDevices && handles[dev.handle] == dev {
		handles[dev.handle] = nil
	}
}

// ByHandle returns the device that owns the given handle, or nil. Intended
// for callers porting from fd-style C APIs; new code should keep the *Dev
// returned by the constructor instead.
func ByHandle(h int) *Dev {
	handleMu.Lock()
	defer handleMu.Unlock()
	if h < 0 || h >= MaxDevices {
		return nil
	}
	return handles[h]
}

// Handle returns the small integer naming this device in the handle table.
// The handle is owned by the Dev and is released by Halt.
func (d *Dev) Handle() int {
	return d.handle
}
