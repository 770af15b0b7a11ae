package models

// DefaultPostgresPort is used when the control plane does not report a port.
const DefaultPostgresPort = 5432

// DatabaseInstance is the resolved network location of a named Lakebase
// instance. Fetched fresh each run; never cached across runs.
type DatabaseInstance struct {
	Name         string `json:"name"`
	ReadWriteDNS string `json:"read_write_dns"`
	Port         int    `json:"port,omitempty"`
	State        string `json:"state,omitempty"`
}

func (d *DatabaseInstance) Prepare() {
	if d.Port == 0 {
		d.Port = DefaultPostgresPort
	}
}
