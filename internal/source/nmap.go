package source

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/nao1215/ftpripper/internal/model"
)

// nmapRun mirrors the parts of an nmap XML report (-oX) this tool
// cares about. Everything else in the document is ignored.
type nmapRun struct {
	Hosts []nmapHost `xml:"host"`
}

type nmapHost struct {
	Address nmapAddress `xml:"address"`
	Ports   []nmapPort  `xml:"ports>port"`
}

type nmapAddress struct {
	Addr string `xml:"addr,attr"`
}

type nmapPort struct {
	PortID  int         `xml:"portid,attr"`
	State   nmapState   `xml:"state"`
	Service nmapService `xml:"service"`
}

type nmapState struct {
	State string `xml:"state,attr"`
}

type nmapService struct {
	Name string `xml:"name,attr"`
}

// FromNmapXML extracts targets from an nmap XML report, selecting only
// ports whose state is "open" and whose detected service is "ftp".
// A host exposing FTP on several ports yields one target per port.
func FromNmapXML(path string) ([]model.Target, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read nmap report: %w", err)
	}

	var run nmapRun
	if err := xml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse nmap report: %w", err)
	}

	var targets []model.Target
	for _, host := range run.Hosts {
		if host.Address.Addr == "" {
			continue
		}
		for _, port := range host.Ports {
			if port.State.State == "open" && port.Service.Name == "ftp" {
				targets = append(targets, model.NewTarget(host.Address.Addr, port.PortID))
			}
		}
	}

	return targets, nil
}
