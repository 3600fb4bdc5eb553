// Package tournament управляет турниром поверх отдельных заездов.
//
// Controller — единственный владелец состояния турнира между
// заездами: рейтингов участников и очереди справедливости. Он
// выбирает участников, проводит заезд через race.Session, применяет
// новые рейтинги, сохраняет их на диск и возвращает участников
// в хвост очереди. Снимки состояния для сервера наблюдения
// выдаются потокобезопасно.
package tournament
