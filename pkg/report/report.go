package report

import (
	"os"

	"github.com/gocarina/gocsv"
)

func WriteCsv(in interface{}, fileName string) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	err = gocsv.Marshal(in, file)
	if err != nil {
		panic(err)
	}
	return file.Close()
}
