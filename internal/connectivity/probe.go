// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package connectivity

import "net"

// InterfaceProbe implements LinkProbe by inspecting the host's network
// interfaces. The link counts as up when any non-loopback interface is up
// and carries at least one address.
type InterfaceProbe struct {
	// interfaces is swappable in tests.
	interfaces func() ([]net.Interface, error)
}

// NewInterfaceProbe returns a probe backed by net.Interfaces.
func NewInterfaceProbe() *InterfaceProbe {
	return &InterfaceProbe{interfaces: net.Interfaces}
}

// Up reports whether the host has a plausible network link. When the
// interface list cannot be read the probe reports up: the link signal is
// only one of the monitor's two inputs and a probe failure alone must not
// push the client offline.
func (p *InterfaceProbe) Up() bool {
	ifaces, err := p.interfaces()
	if err != nil {
		return true
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil || len(addrs) == 0 {
			continue
		}
		return true
	}

	return false
}
