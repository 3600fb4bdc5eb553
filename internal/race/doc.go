// Package race проводит один заезд от чтения слотов до пересчёта
// рейтингов.
//
// Session — машина состояний заезда. Она читает слоты из конфигурации
// симулятора, назначает участников, выполняет пред-хуки, запускает
// симулятор и процессы участников, ждёт выхода симулятора, эскалацией
// останавливает всё запущенное, собирает логи и протокол результатов
// и переводит финишный порядок в новые рейтинги.
//
// Структура:
//   - session.go — Session, Config, Result и каркас прогона
//   - launch.go  — запуск процессов, проверка на ранний крах, остановка
//   - harvest.go — сбор артефактов и подсчёт рейтингов
//   - files.go   — файлы вывода процессов
//
// Два правила держат весь пакет. Первое: после начала запуска
// процессов любой путь, успешный или нет, проходит через остановку.
// Второе: рейтинги участников внутри Session не изменяются — Run
// возвращает новые значения в Result, а применяет их контроллер.
package race
