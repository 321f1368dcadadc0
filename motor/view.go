package motor

import (
	"math"

	"github.com/antchfx/xmlquery"
	"github.com/pb33f/wptlog/motor/model"
)

// visualCompleteThreshold is the completeness percentage whose first
// video frame is reported in the visual70 columns.
const visualCompleteThreshold = 70

// sectionRule maps the children of one view section onto row fields named
// prefix + tag.
type sectionRule struct {
	element string
	prefix  string
	coerce  func(text string) model.Value
}

var viewSections = []sectionRule{
	{element: "results", prefix: "", coerce: model.Coerce},
	{element: "pages", prefix: "page_", coerce: model.Coerce},
	{element: "images", prefix: "image_", coerce: model.Coerce},
}

// convertView flattens one view of a run into a self-describing row. It
// returns nil when the view markup is absent.
func (d *DetailExtractor) convertView(scalars *model.Row, views []*xmlquery.Node, viewName string) *model.Row {
	if len(views) == 0 {
		return nil
	}

	row := model.NewRow(scalars.Len() + 64)
	row.SetText(model.FieldView, viewName)
	row.Merge(scalars)

	for _, section := range viewSections {
		for _, el := range descendants(views, section.element) {
			for _, child := range elementChildren(el) {
				name := d.interner.Intern(section.prefix + tagName(child))
				row.Set(name, section.coerce(child.InnerText()))
			}
		}
	}

	assignFirstVisual70(row, descendants(descendants(views, "videoFrames"), "frame"))

	row.Set(model.FieldDOMContentLoadedTime, model.Number(
		row.Number(model.FieldDOMContentLoadedEnd)-row.Number(model.FieldDOMContentLoadedStart)))

	return row
}

// assignFirstVisual70 records the first frame, in document order, that
// reached the threshold. Later frames are not looked at once one matched.
func assignFirstVisual70(row *model.Row, frames []*xmlquery.Node) {
	found := false
	for i := 0; i < len(frames) && !found; i++ {
		frame := []*xmlquery.Node{frames[i]}

		complete, ok := model.ParseLeadingInt(textOf(descendants(frame, "VisuallyComplete")))
		if !ok || complete < visualCompleteThreshold {
			continue
		}
		found = true

		frameTime := model.Number(math.NaN())
		if t, ok := model.ParseLeadingInt(textOf(descendants(frame, "time"))); ok {
			frameTime = model.Int(t)
		}

		row.Set(model.FieldVisual70Time, frameTime)
		row.Set(model.FieldVisual70Complete, model.Int(complete))
		row.SetText(model.FieldVisual70Image, textOf(descendants(frame, "image")))
	}
}
