// Package export writes parsed questions as an IMS QTI 2.1 content package.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/mind-engage/quizdoc/internal/quiz"
)

const (
	qtiNS      = "http://www.imsglobal.org/xsd/imsqti_v2p1"
	manifestNS = "http://www.imsglobal.org/xsd/imscp_v1p1"
	itemType   = "imsqti_item_xmlv2p1"
)

// BuildPackage returns a zip holding imsmanifest.xml and one item file per
// question. Item identifiers are fresh UUIDs on every call.
func BuildPackage(title string, questions []quiz.Question) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	mf := imsManifest{
		Xmlns:      manifestNS,
		Identifier: "manifest-" + uuid.NewString(),
		Title:      title,
		Resources:  make([]imsResource, 0, len(questions)),
	}
	for i, q := range questions {
		id := "item-" + uuid.NewString()
		name := id + ".xml"
		mf.Resources = append(mf.Resources, imsResource{
			Identifier: id,
			Type:       itemType,
			Href:       name,
			Files:      []imsFile{{Href: name}},
		})
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		if err := writeXML(w, buildItem(id, fmt.Sprintf("Question %d", i+1), q)); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	mfw, err := zw.Create("imsmanifest.xml")
	if err != nil {
		return nil, err
	}
	if err := writeXML(mfw, mf); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXML(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// --- manifest ---

type imsManifest struct {
	XMLName    xml.Name      `xml:"manifest"`
	Xmlns      string        `xml:"xmlns,attr,omitempty"`
	Identifier string        `xml:"identifier,attr"`
	Title      string        `xml:"metadata>title,omitempty"`
	Resources  []imsResource `xml:"resources>resource"`
}
type imsResource struct {
	Identifier string    `xml:"identifier,attr"`
	Type       string    `xml:"type,attr"`
	Href       string    `xml:"href,attr"`
	Files      []imsFile `xml:"file"`
}
type imsFile struct {
	Href string `xml:"href,attr"`
}

// --- items ---

type assessmentItem struct {
	XMLName    xml.Name             `xml:"assessmentItem"`
	Xmlns      string               `xml:"xmlns,attr"`
	Identifier string               `xml:"identifier,attr"`
	Title      string               `xml:"title,attr"`
	Adaptive   bool                 `xml:"adaptive,attr"`
	TimeDep    bool                 `xml:"timeDependent,attr"`
	Response   *responseDeclaration `xml:"responseDeclaration,omitempty"`
	Outcome    outcomeDeclaration   `xml:"outcomeDeclaration"`
	Body       itemBody             `xml:"itemBody"`
}

type responseDeclaration struct {
	Identifier  string    `xml:"identifier,attr"`
	Cardinality string    `xml:"cardinality,attr"`
	BaseType    string    `xml:"baseType,attr"`
	Correct     *valueSet `xml:"correctResponse,omitempty"`
}

type valueSet struct {
	Values []string `xml:"value"`
}

type outcomeDeclaration struct {
	Identifier  string   `xml:"identifier,attr"`
	Cardinality string   `xml:"cardinality,attr"`
	BaseType    string   `xml:"baseType,attr"`
	Default     valueSet `xml:"defaultValue"`
}

type itemBody struct {
	Prompt   string             `xml:"p"`
	Rubric   *rubricBlock       `xml:"rubricBlock,omitempty"`
	Choice   *choiceInteraction `xml:"choiceInteraction,omitempty"`
	Entry    *textInteraction   `xml:"textEntryInteraction,omitempty"`
	Extended *textInteraction   `xml:"extendedTextInteraction,omitempty"`
}

type rubricBlock struct {
	View string `xml:"view,attr"`
	Text string `xml:"p"`
}

type choiceInteraction struct {
	ResponseIdentifier string         `xml:"responseIdentifier,attr"`
	Shuffle            bool           `xml:"shuffle,attr"`
	MaxChoices         int            `xml:"maxChoices,attr"`
	Choices            []simpleChoice `xml:"simpleChoice"`
}

type simpleChoice struct {
	Identifier string `xml:"identifier,attr"`
	Text       string `xml:",chardata"`
}

type textInteraction struct {
	ResponseIdentifier string `xml:"responseIdentifier,attr"`
}

// buildItem maps one question onto an item. Question text is carried as
// character data so inline HTML from formatting survives escaped.
func buildItem(id, title string, q quiz.Question) assessmentItem {
	points := q.Points
	if points <= 0 {
		points = 1
	}
	it := assessmentItem{
		Xmlns:      qtiNS,
		Identifier: id,
		Title:      title,
		Outcome: outcomeDeclaration{
			Identifier: "MAXSCORE", Cardinality: "single", BaseType: "float",
			Default: valueSet{Values: []string{strconv.FormatFloat(points, 'f', -1, 64)}},
		},
		Body: itemBody{Prompt: q.Text},
	}
	switch q.Type {
	case quiz.TypeTrueFalse, quiz.TypeMultipleChoice:
		var choices []simpleChoice
		var correct []string
		if len(q.Answers) > 0 {
			for i, a := range q.Answers {
				cid := choiceID(i)
				choices = append(choices, simpleChoice{Identifier: cid, Text: a.Text})
				if a.Weight == quiz.WeightCorrect {
					correct = append(correct, cid)
				}
			}
		} else {
			for i, o := range q.AnswerOptions {
				choices = append(choices, simpleChoice{Identifier: choiceID(i), Text: o})
			}
		}
		rd := &responseDeclaration{Identifier: "RESPONSE", Cardinality: "single", BaseType: "identifier"}
		if len(correct) > 0 {
			rd.Correct = &valueSet{Values: correct}
		}
		it.Response = rd
		it.Body.Choice = &choiceInteraction{ResponseIdentifier: "RESPONSE", MaxChoices: 1, Choices: choices}
	case quiz.TypeShortAnswer:
		it.Response = &responseDeclaration{Identifier: "RESPONSE", Cardinality: "single", BaseType: "string"}
		it.Body.Entry = &textInteraction{ResponseIdentifier: "RESPONSE"}
	default:
		it.Response = &responseDeclaration{Identifier: "RESPONSE", Cardinality: "single", BaseType: "string"}
		it.Body.Extended = &textInteraction{ResponseIdentifier: "RESPONSE"}
	}
	if q.SampleAnswer != nil && *q.SampleAnswer != "" {
		it.Body.Rubric = &rubricBlock{View: "scorer", Text: *q.SampleAnswer}
	}
	return it
}

func choiceID(i int) string { return "CHOICE_" + string(rune('A'+i)) }
