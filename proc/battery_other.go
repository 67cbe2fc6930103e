//go:build !windows

package proc

func ReadBattery() Battery {
	return Battery{}
}
