package render

import (
	"fmt"

	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/view"
)

// DownloadName is the file name offered for exported GeoJSON.
const DownloadName = "outliner-result.geojson"

type valueAtom struct{}

func (valueAtom) StyleClass() string { return "atom-value" }
func (valueAtom) Enter(*view.Node)   {}

func (valueAtom) Update(atom *view.Node, item domain.Variant, _ Context) error {
	v, err := as[domain.ValueAtom](domain.KindAtom, item)
	if err != nil {
		return err
	}
	atom.SetText(string(v))
	return nil
}

type labelledIconAtom struct{}

func (labelledIconAtom) StyleClass() string { return "atom-labelled-icon" }

func (labelledIconAtom) Enter(atom *view.Node) {
	atom.Append("img")
	atom.Append("span")
}

func (labelledIconAtom) Update(atom *view.Node, item domain.Variant, _ Context) error {
	v, err := as[*domain.LabelledIcon](domain.KindAtom, item)
	if err != nil {
		return err
	}
	img := atom.SelectElement("img")
	img.SetAttr("src", fmt.Sprintf("/images/%s.svg", v.Icon))
	img.SetClass("icon-" + v.Icon)
	atom.SelectElement("span").SetText(v.Label)
	return nil
}

type downloadAtom struct{}

func (downloadAtom) StyleClass() string { return "atom-download" }

func (downloadAtom) Enter(atom *view.Node) {
	atom.Append("a")
}

func (downloadAtom) Update(atom *view.Node, item domain.Variant, rc Context) error {
	v, err := as[domain.DownloadAtom](domain.KindAtom, item)
	if err != nil {
		return err
	}
	a := atom.SelectElement("a")
	a.SetAttr("href", rc.ExportURL())
	a.SetAttr("download", DownloadName)
	a.SetText(string(v))
	return nil
}
