package domain

import "errors"

var (
	ErrNotFound           = errors.New("запись не найдена")
	ErrInvalidStatus      = errors.New("некорректный статус профиля")
	ErrSlugTaken          = errors.New("адрес профиля уже занят")
	ErrSlugImmutable      = errors.New("адрес опубликованного профиля нельзя изменить")
	ErrNotPublished       = errors.New("профиль не опубликован")
	ErrInvalidCredentials = errors.New("неверный email или пароль")
	ErrInvalidToken       = errors.New("недействительный токен")
	ErrInvalidInput       = errors.New("некорректные данные")
	ErrStorageUnavailable = errors.New("файловое хранилище не настроено")
)
