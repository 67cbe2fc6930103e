//go:build !windows

package proc

func processSID(uint32) (string, error) { return "", ErrUnsupported }

func lookupAccount(string) (string, error) { return "", ErrUnsupported }

func (i *Inspector) Static(uint32, bool) (StaticInfo, error) {
	return StaticInfo{}, ErrUnsupported
}

func (i *Inspector) Efficiency(uint32) (bool, error) { return false, ErrUnsupported }

func (i *Inspector) Details(uint32) (Details, error) { return Details{}, ErrUnsupported }

func (i *Inspector) IOCounters(uint32) (uint64, uint64, error) {
	return 0, 0, ErrUnsupported
}
