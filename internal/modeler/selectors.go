package modeler

import "fmt"

// UI affordances of the target application. The monitoring results table
// addresses rows by process name with a nested status cell.
const (
	loginUsernameInput = "input[name='username']"
	loginPasswordInput = "input[name='password']"

	createProcessButton = "[data-test='create-process']"
	processNameInput    = "[data-test='process-name-input']"
	confirmCreateButton = "[data-test='confirm-create']"
	addConnectorButton  = "[data-test='add-connector']"
	connectorURLInput   = "[data-test='connector-url-input']"
	saveConnectorButton = "[data-test='save-connector']"
	saveProcessButton   = "[data-test='save-process']"

	runInstanceButton    = "[data-test='run-instance']"
	monitorSidebarToggle = "[data-test='monitor-sidebar-toggle']"
	monitorLink          = "[data-test='monitor-link']"
	processSelect        = "[data-test='process-select']"
	startInstanceButton  = "[data-test='start-instance']"
	instanceSearchInput  = "[data-test='instance-search']"
)

const completedStatus = "Completed"

func completionStatusCell(processName string) string {
	return fmt.Sprintf("[data-test='process-row-%s'] [data-test='completion-status']", processName)
}
