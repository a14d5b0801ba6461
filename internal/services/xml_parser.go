package services

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// acceptedNoticeCode marks a filing-acknowledgement notice; every other
// notice type is recorded as rejected and ignored by ingestion
const acceptedNoticeCode = "844"

// ParsedNotice is the structured record extracted from a tax-authority XML
// notice
type ParsedNotice struct {
	CompanyTaxID    string `json:"company_tax_id"`
	CompanyName     string `json:"company_name"`
	Address         string `json:"address"`
	NoticeCode      string `json:"notice_code"`
	NoticeNumber    string `json:"notice_number"`
	NoticeDate      string `json:"notice_date"`
	TransactionID   string `json:"transaction_id"`
	FormRaw         string `json:"form_raw"`
	FormCode        string `json:"form_code"`
	DeclarationType string `json:"declaration_type"`
	Period          string `json:"period"`
	Attempt         string `json:"attempt"`
	Accepted        bool   `json:"accepted"`
}

// xmlNode is a minimal element tree, searched by local name so namespace
// prefixes and nesting depth in incoming notices don't matter
type xmlNode struct {
	name     string
	text     string
	children []*xmlNode
}

func parseTree(data []byte) (*xmlNode, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	root := &xmlNode{}
	stack := []*xmlNode{root}

	for {
		tok, err := decoder.Token()
		if tok == nil {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{name: t.Name.Local}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			cur := stack[len(stack)-1]
			cur.text += string(t)
		}
	}
	if len(root.children) == 0 {
		return nil, errEmptyDocument
	}
	return root, nil
}

var errEmptyDocument = xml.UnmarshalError("empty document")

// findText walks the tree depth-first for the first element matching the
// local-name path suffix and returns its trimmed text
func (n *xmlNode) findText(path ...string) string {
	if found := n.find(path); found != nil {
		return strings.TrimSpace(found.text)
	}
	return ""
}

func (n *xmlNode) find(path []string) *xmlNode {
	if len(path) == 0 {
		return nil
	}
	for _, child := range n.children {
		if child.name == path[0] {
			if len(path) == 1 {
				return child
			}
			if found := child.find(path[1:]); found != nil {
				return found
			}
		}
		// descend: paths match at any depth, like a descendant axis
		if found := child.find(path); found != nil {
			return found
		}
	}
	return nil
}

// ParseNotice extracts the submission fields from raw XML bytes. A document
// that fails to parse yields a zero record with Accepted=false, never an
// error the caller has to branch on.
func ParseNotice(data []byte, knownCodes []string) ParsedNotice {
	root, err := parseTree(data)
	if err != nil {
		return ParsedNotice{}
	}

	notice := ParsedNotice{
		CompanyTaxID:  root.findText("NNhanTBaoThue", "maNNhan"),
		CompanyName:   root.findText("NNhanTBaoThue", "tenNNhan"),
		Address:       root.findText("NNhanTBaoThue", "diaChiNNhan"),
		NoticeCode:    root.findText("TTinTBaoThue", "maTBao"),
		NoticeNumber:  root.findText("TTinTBaoThue", "soTBao"),
		NoticeDate:    root.findText("TTinTBaoThue", "ngayTBao"),
		TransactionID: root.findText("NDungTBao", "maGiaoDichDTu"),
	}

	if detail := root.find([]string{"HoSoThue", "CTietHoSoThue"}); detail != nil {
		notice.FormRaw = detail.findText("tokhai-phuluc")
		notice.DeclarationType = detail.findText("loaiToKhai")
		notice.Period = detail.findText("kyTinhThue")
		notice.Attempt = detail.findText("lanNop")
	}
	if notice.FormRaw == "" {
		notice.FormRaw = root.findText("HoSoThue", "tenToKhai")
	}
	if notice.FormRaw == "" {
		notice.FormRaw = root.findText("HoSoThue", "maToKhai")
	}

	notice.FormCode = DetectFormCode(notice.FormRaw, knownCodes)
	notice.Accepted = strings.TrimSpace(notice.NoticeCode) == acceptedNoticeCode
	return notice
}

var formTokenPattern = regexp.MustCompile(`\b\d{1,3}/[A-Z0-9\-/]+\b`)

// DetectFormCode maps the free-text form description from a notice onto a
// canonical catalog code. Falls back to the leading token of the raw text
// when no catalog entry matches.
func DetectFormCode(formRaw string, knownCodes []string) string {
	if formRaw == "" {
		return ""
	}
	normRaw := normalizeForMatch(formRaw)

	normMap := make(map[string]string, len(knownCodes))
	for _, code := range knownCodes {
		normMap[normalizeForMatch(code)] = code
	}

	// exact presence search with word-ish boundaries
	for normCode, orig := range normMap {
		if normCode == "" {
			continue
		}
		boundary := regexp.MustCompile(`(^|[^A-Z0-9/])` + regexp.QuoteMeta(normCode) + `($|[^A-Z0-9/])`)
		if boundary.MatchString(normRaw) {
			return orig
		}
	}

	// token shaped like "01/GTGT"
	if token := formTokenPattern.FindString(normRaw); token != "" {
		if orig, ok := normMap[token]; ok {
			return orig
		}
		if orig, ok := normMap[strings.TrimRight(token, "-_/")]; ok {
			return orig
		}
	}

	// token by token over the first few fields
	tokens := regexp.MustCompile(`[,\s;\-()]+`).Split(normRaw, -1)
	for i, token := range tokens {
		if i >= 12 {
			break
		}
		if orig, ok := normMap[token]; ok {
			return orig
		}
	}

	// fallback: first token before any dash
	left := strings.TrimSpace(strings.SplitN(formRaw, "-", 2)[0])
	fields := strings.Fields(left)
	if len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// normalizeForMatch uppercases, collapses whitespace and strips diacritics
func normalizeForMatch(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = regexp.MustCompile(`\s+`).ReplaceAllString(s, " ")

	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
