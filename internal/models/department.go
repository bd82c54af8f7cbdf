package models

// Department is the closed set of academic departments a purchase sheet
// or teacher profile can belong to.
type Department string

const (
	DepartmentAutomobile      Department = "automobile_engineering"
	DepartmentCivil           Department = "civil_engineering"
	DepartmentMechanical      Department = "mechanical_engineering"
	DepartmentEEE             Department = "electrical_and_electronics_engineering"
	DepartmentECE             Department = "electronics_and_communication_engineering"
	DepartmentVLSI            Department = "vlsi"
	DepartmentACT             Department = "advanced_communication_technology"
	DepartmentAIDS            Department = "artificial_intelligence_and_data_science"
	DepartmentCSE             Department = "computer_science_and_engineering"
	DepartmentAIML            Department = "artificial_intelligence_and_machine_learning"
	DepartmentCSECyber        Department = "cse_cybersecurity"
	DepartmentIT              Department = "information_technology"
	DepartmentMCA             Department = "computer_application_mca"
	DepartmentSciHum          Department = "science_and_humanities"
	DepartmentMEElectronics   Department = "me_applied_electronics"
	DepartmentMECADCAM        Department = "me_cad_cam"
	DepartmentMECSE           Department = "me_computer_science_and_engineer"
	DepartmentMECommunication Department = "me_communication_systems"
	DepartmentMEStructural    Department = "me_structural_engineer"

	// DepartmentConsolidated tags sheets produced by merging several
	// teachers' requests; it is never assigned to a user profile.
	DepartmentConsolidated Department = "consolidated"
)

var departmentSet = map[Department]struct{}{
	DepartmentAutomobile:      {},
	DepartmentCivil:           {},
	DepartmentMechanical:      {},
	DepartmentEEE:             {},
	DepartmentECE:             {},
	DepartmentVLSI:            {},
	DepartmentACT:             {},
	DepartmentAIDS:            {},
	DepartmentCSE:             {},
	DepartmentAIML:            {},
	DepartmentCSECyber:        {},
	DepartmentIT:              {},
	DepartmentMCA:             {},
	DepartmentSciHum:          {},
	DepartmentMEElectronics:   {},
	DepartmentMECADCAM:        {},
	DepartmentMECSE:           {},
	DepartmentMECommunication: {},
	DepartmentMEStructural:    {},
	DepartmentConsolidated:    {},
}

// Valid reports whether the value is a known department.
func (d Department) Valid() bool {
	_, ok := departmentSet[d]
	return ok
}
