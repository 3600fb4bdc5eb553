package torcs

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// Артефакты симулятора (конфигурация заезда и протокол результатов)
// записаны в одном формате params-XML: дерево вложенных секций
// с атрибутами attstr (строки) и attnum (числа).

// document — корневой элемент <params>.
type document struct {
	XMLName  xml.Name  `xml:"params"`
	Sections []section `xml:"section"`
}

// section — элемент <section name="...">.
type section struct {
	Name     string    `xml:"name,attr"`
	Sections []section `xml:"section"`
	Strings  []attVal  `xml:"attstr"`
	Numbers  []attVal  `xml:"attnum"`
}

// attVal — элемент <attstr> или <attnum>.
type attVal struct {
	Name string `xml:"name,attr"`
	Val  string `xml:"val,attr"`
}

// parseDocument разбирает params-XML документ.
func parseDocument(data []byte) (*document, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse params document: %w", err)
	}
	return &doc, nil
}

// find ищет секцию по имени в глубину по всему дереву.
// Возвращает первую найденную в порядке документа.
func (d *document) find(name string) *section {
	for i := range d.Sections {
		if s := d.Sections[i].find(name); s != nil {
			return s
		}
	}
	return nil
}

func (s *section) find(name string) *section {
	if s.Name == name {
		return s
	}
	for i := range s.Sections {
		if found := s.Sections[i].find(name); found != nil {
			return found
		}
	}
	return nil
}

// attstr возвращает значение строкового атрибута секции.
func (s *section) attstr(name string) (string, bool) {
	for _, a := range s.Strings {
		if a.Name == name {
			return a.Val, true
		}
	}
	return "", false
}

// attnum возвращает значение числового атрибута секции.
func (s *section) attnum(name string) (int, bool) {
	for _, a := range s.Numbers {
		if a.Name == name {
			n, err := strconv.Atoi(a.Val)
			if err != nil {
				return 0, false
			}
			return n, true
		}
	}
	return 0, false
}
