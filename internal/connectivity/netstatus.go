package connectivity

import "net"

// InterfaceStatus reports the host as online when at least one non-loopback
// interface is up and has an address.
type InterfaceStatus struct{}

// Online implements NetworkStatus.
func (InterfaceStatus) Online() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	candidates := make([]interfaceInfo, 0, len(ifaces))
	for _, iface := range ifaces {
		info := interfaceInfo{flags: iface.Flags}
		if addrs, err := iface.Addrs(); err == nil {
			info.addrs = len(addrs)
		}
		candidates = append(candidates, info)
	}
	return anyUsable(candidates)
}

type interfaceInfo struct {
	flags net.Flags
	addrs int
}

func anyUsable(ifaces []interfaceInfo) bool {
	for _, iface := range ifaces {
		if iface.flags&net.FlagUp == 0 || iface.flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.addrs > 0 {
			return true
		}
	}
	return false
}
