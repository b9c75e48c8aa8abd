package connectivity

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterfaceProbe_Up(t *testing.T) {
	tests := []struct {
		name   string
		ifaces func() ([]net.Interface, error)
		want   bool
	}{
		{
			name:   "probe failure reports up",
			ifaces: func() ([]net.Interface, error) { return nil, errors.New("netlink: permission denied") },
			want:   true,
		},
		{
			name:   "no interfaces is down",
			ifaces: func() ([]net.Interface, error) { return nil, nil },
			want:   false,
		},
		{
			name: "only loopback is down",
			ifaces: func() ([]net.Interface, error) {
				return []net.Interface{{Name: "lo", Flags: net.FlagUp | net.FlagLoopback}}, nil
			},
			want: false,
		},
		{
			name: "inactive interface is down",
			ifaces: func() ([]net.Interface, error) {
				return []net.Interface{{Name: "eth0"}}, nil
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &InterfaceProbe{interfaces: tt.ifaces}

			assert.Equal(t, tt.want, p.Up())
		})
	}
}
