package musicxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path"
	"strings"

	"github.com/jsphweid/choirdex/model"
	"github.com/jsphweid/choirdex/util"
	"golang.org/x/net/html/charset"
)

const containerPath = "META-INF/container.xml"

type container struct {
	RootFiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

func isCompressed(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

// ParseCompressed reads a .mxl archive. The score is the first rootfile
// named by META-INF/container.xml, or else the first .musicxml/.xml entry
// in name order.
func ParseCompressed(data []byte) (*model.Score, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, model.ParsingFailed("reading mxl archive: " + err.Error())
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	name := rootFileName(files)
	if name == "" {
		return nil, model.InvalidMusicXML("mxl archive has no score file")
	}
	f, ok := files[name]
	if !ok {
		return nil, model.InvalidMusicXML("mxl archive is missing " + name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, model.ParsingFailed("opening " + name + ": " + err.Error())
	}
	defer rc.Close()
	return ParseReader(rc)
}

func rootFileName(files map[string]*zip.File) string {
	if f, ok := files[containerPath]; ok {
		if c, err := readContainer(f); err == nil {
			for _, rf := range c.RootFiles {
				if rf.MediaType == "" || strings.Contains(rf.MediaType, "musicxml") {
					return rf.FullPath
				}
			}
		}
	}
	for _, name := range util.GetKeys(files) {
		if strings.HasPrefix(name, "META-INF/") {
			continue
		}
		switch path.Ext(name) {
		case ".musicxml", ".xml":
			return name
		}
	}
	return ""
}

func readContainer(f *zip.File) (*container, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var c container
	dec := xml.NewDecoder(io.LimitReader(rc, 1<<20))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
