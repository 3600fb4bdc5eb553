package race

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shaiso/Paddock/internal/domain"
)

// openOutput открывает файл вывода процесса и ставит его под
// гарантированное закрытие в cleanup.
//
// Файлы открываются через os напрямую, минуя файловый сервис:
// os/exec принимает дескрипторы *os.File, и вывод процесса должен
// течь в них без посредников.
func (s *Session) openOutput(st *run, dir, nameTemplate string, vars map[string]string) (*os.File, error) {
	name := domain.ExpandName(nameTemplate, vars)
	p := filepath.Join(dir, name)

	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", p, err)
	}
	st.files = append(st.files, f)
	return f, nil
}
