package proc

// Battery describes the primary battery. Present is false on machines
// without one.
type Battery struct {
	Present  bool
	Percent  float64
	Charging bool
}

// systemPowerStatus mirrors SYSTEM_POWER_STATUS.
type systemPowerStatus struct {
	ACLineStatus        byte
	BatteryFlag         byte
	BatteryLifePercent  byte
	SystemStatusFlag    byte
	BatteryLifeTime     uint32
	BatteryFullLifeTime uint32
}

const noSystemBattery = 128

func batteryFromStatus(st systemPowerStatus) Battery {
	if st.BatteryFlag&noSystemBattery != 0 || st.BatteryLifePercent > 100 {
		return Battery{}
	}
	return Battery{
		Present:  true,
		Percent:  float64(st.BatteryLifePercent),
		Charging: st.ACLineStatus == 1,
	}
}
