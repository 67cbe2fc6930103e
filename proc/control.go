package proc

import "fmt"

// Controller mutates processes. It is the OS side of the action executor.
type Controller struct{}

func NewController() *Controller {
	return &Controller{}
}

func validPID(pid uint32) error {
	if pid == 0 {
		return fmt.Errorf("invalid PID: %d", pid)
	}
	return nil
}

// Terminate ends the process with the given exit code.
func (c *Controller) Terminate(pid uint32, exitCode uint32) error {
	if err := validPID(pid); err != nil {
		return err
	}
	if err := terminate(pid, exitCode); err != nil {
		return fmt.Errorf("failed to terminate PID %d: %w", pid, err)
	}
	return nil
}

// SetPriorityClass applies one of the Windows priority class constants.
func (c *Controller) SetPriorityClass(pid uint32, class uint32) error {
	if err := validPID(pid); err != nil {
		return err
	}
	if err := setPriorityClass(pid, class); err != nil {
		return fmt.Errorf("failed to set priority for PID %d: %w", pid, err)
	}
	return nil
}

// SetAffinity restricts the process to the CPUs set in mask.
func (c *Controller) SetAffinity(pid uint32, mask uint64) error {
	if err := validPID(pid); err != nil {
		return err
	}
	if err := setAffinity(pid, mask); err != nil {
		return fmt.Errorf("failed to set affinity for PID %d: %w", pid, err)
	}
	return nil
}
